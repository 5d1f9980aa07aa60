package ai

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Original is the client-side sentinel meaning "show the untranslated text".
const Original = "original"

// SupportedLanguages lists the translation targets offered to readers.
var SupportedLanguages = []string{"en", "hi", "es", "fr", "mr", "bn", "ta", "te", "kn", "ml", "gu", "pa"}

var englishNames = display.English.Tags()

// IsSupported reports whether code is one of SupportedLanguages.
func IsSupported(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, c := range SupportedLanguages {
		if c == code {
			return true
		}
	}
	return false
}

// LanguageName returns the English display name for code ("hi" -> "Hindi").
// Unparseable or unnamed codes are returned unchanged so prompts still carry
// whatever the caller asked for.
func LanguageName(code string) string {
	code = strings.TrimSpace(code)
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := englishNames.Name(tag); name != "" {
		return name
	}
	return code
}
