package triage_test

import (
	"testing"

	"github.com/JaimeStill/autou/internal/triage"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name string
		text string
		want triage.Language
	}{
		{"portuguese accent", "Qual a situação do pedido?", triage.LanguagePT},
		{"uppercase accent", "ATENÇÃO", triage.LanguagePT},
		{"cedilla only", "preco com cedilha: ç", triage.LanguagePT},
		{"plain ascii", "Please reset my password", triage.LanguageEN},
		{"unaccented portuguese reads as en", "Bom dia, tudo bem", triage.LanguageEN},
		{"digits only", "12345 678", triage.LanguageUnknown},
		{"punctuation", "?!... --", triage.LanguageUnknown},
		{"empty", "", triage.LanguageUnknown},
		{"other script", "Привет", triage.LanguageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := triage.DetectLanguage(tt.text); got != tt.want {
				t.Errorf("DetectLanguage(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		in   triage.Language
		want triage.Language
	}{
		{triage.LanguagePT, triage.LanguagePT},
		{triage.LanguageEN, triage.LanguageEN},
		{triage.LanguageUnknown, triage.LanguageUnknown},
		{"es", triage.LanguageUnknown},
		{"", triage.LanguageUnknown},
	}

	for _, tt := range tests {
		if got := triage.NormalizeLanguage(tt.in); got != tt.want {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
