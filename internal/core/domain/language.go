package domain

import "strings"

const DefaultLanguage = "en"

var languageNames = map[string]string{
	"en": "English",
	"hi": "Hindi",
	"bn": "Bengali",
	"te": "Telugu",
	"ta": "Tamil",
	"gu": "Gujarati",
	"kn": "Kannada",
	"ml": "Malayalam",
	"pa": "Punjabi",
	"or": "Odia",
}

// LanguageName maps a language code to its English name; unknown codes read as English.
func LanguageName(code string) string {
	if name, ok := languageNames[strings.ToLower(strings.TrimSpace(code))]; ok {
		return name
	}
	return languageNames[DefaultLanguage]
}

func SupportedLanguages() map[string]string {
	out := make(map[string]string, len(languageNames))
	for k, v := range languageNames {
		out[k] = v
	}
	return out
}

// ResolveLanguage returns the supported code a request will actually be
// answered in; unknown codes resolve to English.
func ResolveLanguage(code string) string {
	code = NormalizeLanguage(code)
	if _, ok := languageNames[code]; !ok {
		return DefaultLanguage
	}
	return code
}

// NormalizeLanguage lowercases a code and falls back to English when empty.
func NormalizeLanguage(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return DefaultLanguage
	}
	return code
}
