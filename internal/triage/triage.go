// Package triage holds the deterministic decision rules applied to a scored email:
// the threshold decision, the suggested reply, and the coarse language tag.
// Nothing here performs I/O.
package triage

// Label is the binary triage outcome.
type Label string

const (
	Produtivo   Label = "Produtivo"
	Improdutivo Label = "Improdutivo"
)

// Valid reports whether l is a known label.
func (l Label) Valid() bool {
	return l == Produtivo || l == Improdutivo
}

// TemplateCode identifies which canned reply was suggested.
type TemplateCode string

const (
	TemplateStatus  TemplateCode = "status"
	TemplateError   TemplateCode = "error"
	TemplateAccess  TemplateCode = "access"
	TemplatePwd     TemplateCode = "pwd"
	TemplateAttach  TemplateCode = "attach"
	TemplateGeneric TemplateCode = "generic"
	TemplateOOO     TemplateCode = "ooo"
)

// TemplateCodes lists every template code.
var TemplateCodes = []TemplateCode{
	TemplateStatus,
	TemplateError,
	TemplateAccess,
	TemplatePwd,
	TemplateAttach,
	TemplateGeneric,
	TemplateOOO,
}

// Valid reports whether c is a known template code.
func (c TemplateCode) Valid() bool {
	switch c {
	case TemplateStatus, TemplateError, TemplateAccess, TemplatePwd,
		TemplateAttach, TemplateGeneric, TemplateOOO:
		return true
	}
	return false
}

// Language is the coarse language tag recorded with each classification.
type Language string

const (
	LanguagePT      Language = "pt"
	LanguageEN      Language = "en"
	LanguageUnknown Language = "unknown"
)

// Valid reports whether l is a recognized language tag.
func (l Language) Valid() bool {
	return l == LanguagePT || l == LanguageEN || l == LanguageUnknown
}
