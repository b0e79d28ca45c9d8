package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	English = "en"
	Arabic  = "ar"
)

var (
	supported = []language.Tag{language.English, language.Arabic}
	codes     = []string{English, Arabic}
	matcher   = language.NewMatcher(supported)
)

// Negotiate maps any language tag or Accept-Language value to a supported
// code. Unknown or empty input yields fallback.
func Negotiate(fallback string, candidates ...string) string {
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		tags, _, err := language.ParseAcceptLanguage(candidate)
		if err != nil || len(tags) == 0 {
			continue
		}
		_, index, confidence := matcher.Match(tags...)
		if confidence == language.No {
			continue
		}
		return codes[index]
	}
	if IsSupported(fallback) {
		return fallback
	}
	return English
}

// IsSupported reports whether code is one of the shipped languages
func IsSupported(code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}

// Direction is the text direction for a language code
func Direction(code string) string {
	if code == Arabic {
		return "rtl"
	}
	return "ltr"
}
