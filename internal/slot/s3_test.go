package slot

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// fakeS3 is an in-memory stand-in for the S3 object API.
type fakeS3 struct {
	objects map[string][]byte
	putErr  error
	lastCT  string
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = b
	if in.ContentType != nil {
		f.lastCT = *in.ContentType
	}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Bucket+"/"+*in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Slot(t *testing.T) {
	exerciseSlot(t, newS3Slot(newFakeS3(), "bucket", "hwid/"))
}

func TestS3Slot_ObjectKeyLayout(t *testing.T) {
	fake := newFakeS3()
	s := newS3Slot(fake, "bucket", "prod/")
	if err := s.Write(context.Background(), "minecraft-hwid-list", []byte("[]")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := fake.objects["bucket/prod/minecraft-hwid-list.json"]; !ok {
		t.Fatalf("unexpected object layout: %v", fake.objects)
	}
	if fake.lastCT != "application/json" {
		t.Fatalf("unexpected content type %q", fake.lastCT)
	}
}

func TestS3Slot_WriteErrorWrapped(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = errors.New("access denied")
	s := newS3Slot(fake, "bucket", "")
	err := s.Write(context.Background(), "k", []byte("x"))
	if !errors.Is(err, fake.putErr) {
		t.Fatalf("expected wrapped put error, got %v", err)
	}
}
