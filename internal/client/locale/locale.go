// Package locale normalises the content languages the CMS serves.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a CMS language code as sent in the lang query parameter.
type Locale string

const (
	English Locale = "en"
	Russian Locale = "ru"

	Default = English
)

var ErrUnsupported = errors.New("unsupported locale")

var (
	supported = []Locale{English, Russian}
	matcher   = language.NewMatcher([]language.Tag{language.English, language.Russian})
)

// Supported lists the locales the site is published in.
func Supported() []Locale {
	out := make([]Locale, len(supported))
	copy(out, supported)
	return out
}

// Parse accepts any BCP 47 form ("ru", "ru-RU", "en_GB") and maps it onto a
// supported locale.
func Parse(s string) (Locale, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "-")
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrUnsupported)
	}

	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, s)
	}

	_, idx, conf := matcher.Match(tag)
	if conf < language.High {
		return "", fmt.Errorf("%w: %q", ErrUnsupported, s)
	}
	return supported[idx], nil
}

// Tag returns the language tag of l, used for case folding.
func (l Locale) Tag() language.Tag {
	tag, err := language.Parse(string(l))
	if err != nil {
		return language.Und
	}
	return tag
}

func (l Locale) String() string { return string(l) }
