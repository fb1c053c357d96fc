// Package locale resolves the display locale and the formats that depend on it.
package locale

import (
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DefaultLayout is the en-US short date, e.g. 1/10/2024.
const DefaultLayout = "1/2/2006"

var supported = []language.Tag{
	language.AmericanEnglish, // first entry is the matcher fallback
	language.BritishEnglish,
	language.MustParse("en-AU"),
	language.German,
	language.French,
	language.Spanish,
	language.Italian,
	language.Dutch,
	language.Japanese,
	language.Chinese,
	language.Korean,
	language.BrazilianPortuguese,
	language.Swedish,
}

var layouts = map[string]string{
	"en-US": DefaultLayout,
	"en-GB": "02/01/2006",
	"en-AU": "02/01/2006",
	"de":    "2.1.2006",
	"fr":    "02/01/2006",
	"es":    "2/1/2006",
	"it":    "2/1/2006",
	"nl":    "2-1-2006",
	"ja":    "2006/1/2",
	"zh":    "2006/1/2",
	"ko":    "2006. 1. 2.",
	"pt-BR": "02/01/2006",
	"sv":    "2006-01-02",
}

var matcher = language.NewMatcher(supported)

// Resolve picks the supported tag closest to locale. An empty locale falls
// back to LC_ALL, then LANG, then en-US.
func Resolve(locale string) language.Tag {
	for _, candidate := range []string{locale, os.Getenv("LC_ALL"), os.Getenv("LANG")} {
		if tag, ok := match(candidate); ok {
			return tag
		}
	}
	return language.AmericanEnglish
}

// DateLayout returns the short-date time layout for tag.
func DateLayout(tag language.Tag) string {
	if layout, ok := layouts[tag.String()]; ok {
		return layout
	}
	if matched, ok := match(tag.String()); ok {
		return layouts[matched.String()]
	}
	return DefaultLayout
}

// FormatDate formats t as a short date for tag.
func FormatDate(tag language.Tag, t time.Time) string {
	return t.Format(DateLayout(tag))
}

// FormatPoints renders a points total with grouping and at most two fraction digits.
func FormatPoints(tag language.Tag, v float64) string {
	return message.NewPrinter(tag).Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// match converts a POSIX locale name (en_GB.UTF-8) or BCP 47 tag into a supported tag.
func match(name string) (language.Tag, bool) {
	name = strings.TrimSpace(name)
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	if name == "" || name == "C" || name == "POSIX" {
		return language.Und, false
	}

	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		return language.Und, false
	}

	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return language.Und, false
	}
	return supported[idx], true
}
