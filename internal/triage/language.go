package triage

import "regexp"

var (
	rePortuguese = regexp.MustCompile(`(?i)[áéíóúãõç]`)
	reASCII      = regexp.MustCompile(`[a-zA-Z]`)
)

// DetectLanguage tags text as pt when it contains an accented Portuguese
// character, en when it contains any ASCII letter, and unknown otherwise.
// It is a heuristic for telemetry grouping and does not affect classification.
func DetectLanguage(text string) Language {
	switch {
	case rePortuguese.MatchString(text):
		return LanguagePT
	case reASCII.MatchString(text):
		return LanguageEN
	default:
		return LanguageUnknown
	}
}

// NormalizeLanguage returns l when it is a recognized tag and LanguageUnknown otherwise.
func NormalizeLanguage(l Language) Language {
	if l.Valid() {
		return l
	}
	return LanguageUnknown
}
