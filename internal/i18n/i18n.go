// Copyright (c) 2026 ToeiRei
// HWID Manager - hardware identifier registry
// This source code is licensed under the MIT license found in the LICENSE file.

// package i18n provides internationalization and localization support for the
// HWID manager. It uses the go-i18n library to load the embedded translation
// files, and golang.org/x/text to match requested languages against them.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/toeirei/hwidmanager/internal/logging"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// localeFS embeds the YAML translation files from the 'locales' directory
// into the application binary.
//
//go:embed locales/*.yaml
var localeFS embed.FS

// defaultDateTimeLayout is used when a locale does not define format.datetime.
const defaultDateTimeLayout = "2006-01-02 15:04:05"

var (
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	lang      string
)

// Init initializes the i18n bundle and sets up the localizer for a specific language.
// The requested language is matched against the embedded locales, so regional
// tags such as "pl-PL" resolve to "pl". Unknown languages fall back to English.
func Init(requested string) {
	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		logging.Errorf("i18n: read embedded locales: %v", err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + f.Name())
		if err != nil {
			logging.Errorf("i18n: read %s: %v", f.Name(), err)
			continue
		}
		if _, err := bundle.ParseMessageFileBytes(data, f.Name()); err != nil {
			logging.Errorf("i18n: parse %s: %v", f.Name(), err)
		}
	}

	lang = matchLanguage(requested)
	localizer = i18n.NewLocalizer(bundle, lang)
}

// matchLanguage returns the best embedded locale for the requested tag.
func matchLanguage(requested string) string {
	tags := bundle.LanguageTags()
	if len(tags) == 0 {
		return language.English.String()
	}
	want, err := language.Parse(strings.TrimSpace(requested))
	if err != nil {
		return language.English.String()
	}
	_, idx, conf := language.NewMatcher(tags).Match(want)
	if conf == language.No {
		return language.English.String()
	}
	return tags[idx].String()
}

// T is a convenience function to translate a message by its ID.
// Extra arguments are applied to the translated text with fmt.Sprintf.
// If the i18n system has not been initialized, it will default to English.
// If a translation for the given ID is not found, it returns the ID itself.
func T(messageID string, args ...any) string {
	if localizer == nil {
		Init("en")
	}
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		return messageID
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// GetLang returns the tag of the active locale.
func GetLang() string {
	if localizer == nil {
		Init("en")
	}
	return lang
}

// GetAvailableLocales returns the embedded locales keyed by tag, with the
// locale's own display name as value.
func GetAvailableLocales() map[string]string {
	if bundle == nil {
		Init("en")
	}
	out := make(map[string]string)
	for _, tag := range bundle.LanguageTags() {
		loc := i18n.NewLocalizer(bundle, tag.String())
		name, err := loc.Localize(&i18n.LocalizeConfig{MessageID: "language.name"})
		if err != nil {
			name = tag.String()
		}
		out[tag.String()] = name
	}
	return out
}

// FormatTimestamp renders t with the active locale's date-time layout.
// The result is meant for display only.
func FormatTimestamp(t time.Time) string {
	layout := T("format.datetime")
	if layout == "format.datetime" {
		layout = defaultDateTimeLayout
	}
	return t.Format(layout)
}
