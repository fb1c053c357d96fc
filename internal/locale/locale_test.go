package locale

import (
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestResolve(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LANG", "")

	tests := []struct {
		name   string
		locale string
		want   language.Tag
	}{
		{"Empty", "", language.AmericanEnglish},
		{"BCP47", "en-GB", language.BritishEnglish},
		{"POSIX", "de_DE.UTF-8", language.German},
		{"Modifier", "fr_FR@euro", language.French},
		{"CLocale", "C", language.AmericanEnglish},
		{"Garbage", "!!", language.AmericanEnglish},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.locale); got != tt.want {
				t.Errorf("Resolve(%q) = %v, want %v", tt.locale, got, tt.want)
			}
		})
	}
}

func TestResolve_Environment(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LANG", "sv_SE.UTF-8")

	if got := Resolve(""); got != language.Swedish {
		t.Errorf("Resolve from LANG = %v, want sv", got)
	}

	t.Setenv("LC_ALL", "ja_JP.UTF-8")
	if got := Resolve(""); got != language.Japanese {
		t.Errorf("LC_ALL should win over LANG, got %v", got)
	}

	if got := Resolve("en-GB"); got != language.BritishEnglish {
		t.Errorf("explicit locale should win over environment, got %v", got)
	}
}

func TestDateLayout(t *testing.T) {
	day := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		tag  language.Tag
		want string
	}{
		{language.AmericanEnglish, "1/10/2024"},
		{language.BritishEnglish, "10/01/2024"},
		{language.German, "10.1.2024"},
		{language.Japanese, "2024/1/10"},
		{language.Swedish, "2024-01-10"},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			if got := FormatDate(tt.tag, day); got != tt.want {
				t.Errorf("FormatDate = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDateLayout_Unsupported(t *testing.T) {
	if got := DateLayout(language.Und); got != DefaultLayout {
		t.Errorf("DateLayout(und) = %q, want %q", got, DefaultLayout)
	}
}

func TestFormatPoints(t *testing.T) {
	tests := []struct {
		tag  language.Tag
		v    float64
		want string
	}{
		{language.AmericanEnglish, 15, "15"},
		{language.AmericanEnglish, 1234.5, "1,234.5"},
		{language.AmericanEnglish, 0.126, "0.13"},
		{language.German, 1234.5, "1.234,5"},
	}

	for _, tt := range tests {
		if got := FormatPoints(tt.tag, tt.v); got != tt.want {
			t.Errorf("FormatPoints(%v, %v) = %q, want %q", tt.tag, tt.v, got, tt.want)
		}
	}
}
