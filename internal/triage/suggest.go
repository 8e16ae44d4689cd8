package triage

import (
	"regexp"
	"strings"
)

// Rule is one entry of a suggestion list. Match reports whether the rule
// applies and returns the capture interpolated into the reply, if any.
type Rule struct {
	Code  TemplateCode
	Match func(text string) (capture string, ok bool)
	Reply func(capture string) string
}

// RE2's \b and \W are ASCII-only, which would treat accented letters as
// separators. The boundaries below count any Unicode letter or digit as part
// of a word.
const (
	wordStart = `(?:^|[^\p{L}\p{N}_])`
	wordEnd   = `(?:[^\p{L}\p{N}_]|$)`
	nonWord   = `[^\p{L}\p{N}_]`
)

var (
	reTicket = regexp.MustCompile(`(?i)` + wordStart + `(chamado|ticket|protocolo)` + wordEnd + `.*?(\d+)`)
	reStatus = words(`status|atualiza[çc][aã]o`)
	reError  = regexp.MustCompile(`(?i)` + wordStart + `erro` + nonWord + `*(\d{3})` + wordEnd)
	reAccess = words(`acesso|liberar\s+acesso|desbloquei[ao]`)
	rePwd    = words(`senha|reset|redefinir`)
	reAttach = words(`anexo|anexei|segue\s+anexo`)
	reOOO    = words(`ausente|out of office|ooo|f[ée]rias|fora do escrit[óo]rio`)
)

// words matches any alternative of pattern as a whole word, ignoring case.
func words(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)` + wordStart + `(?:` + pattern + `)` + wordEnd)
}

// ProdutivoRules are evaluated in order for Produtivo emails; the last rule always matches.
var ProdutivoRules = []Rule{
	{
		Code: TemplateStatus,
		Match: func(text string) (string, bool) {
			if m := reTicket.FindStringSubmatch(text); m != nil {
				return m[2], true
			}
			return "", reStatus.MatchString(text)
		},
		Reply: func(ref string) string {
			if ref == "" {
				return "Olá! Vamos verificar o status da sua solicitação e retornaremos com uma atualização em breve."
			}
			return "Olá! Verificaremos o status do chamado " + ref + " e retornaremos com uma atualização em breve."
		},
	},
	{
		Code:  TemplateError,
		Match: capture(reError, 1),
		Reply: func(code string) string {
			return "Obrigado pelo relato do erro " + code + ". Encaminhamos para análise e retornaremos assim que possível."
		},
	},
	{
		Code:  TemplateAccess,
		Match: matches(reAccess),
		Reply: fixed("Obrigado pelo pedido de acesso/desbloqueio. Vamos validar a autorização e retornaremos com a liberação."),
	},
	{
		Code:  TemplatePwd,
		Match: matches(rePwd),
		Reply: fixed("Podemos ajudar com a redefinição de senha. Confirme, por favor, o usuário/e-mail cadastrado."),
	},
	{
		Code:  TemplateAttach,
		Match: matches(reAttach),
		Reply: fixed("Recebemos o anexo. Vamos analisar o conteúdo e daremos retorno com os próximos passos."),
	},
	{
		Code:  TemplateGeneric,
		Match: always,
		Reply: fixed("Recebemos sua solicitação e já estamos analisando. Retornaremos em breve com os próximos passos."),
	},
}

// ImprodutivoRules are evaluated in order for every non-Produtivo email; the last rule always matches.
var ImprodutivoRules = []Rule{
	{
		Code:  TemplateOOO,
		Match: matches(reOOO),
		Reply: fixed("Recebemos sua mensagem automática. Anotado o seu período de ausência."),
	},
	{
		Code:  TemplateGeneric,
		Match: always,
		Reply: fixed("Prezado, agradeço o contato. No momento não identifiquei demanda objetiva. Para que eu possa ajudar, gentileza informar objetivo e ação desejada."),
	},
}

// Suggest returns the reply and template code of the first rule matching the
// trimmed text. Produtivo uses ProdutivoRules; any other label uses ImprodutivoRules.
func Suggest(text string, label Label) (string, TemplateCode) {
	rules := ImprodutivoRules
	if label == Produtivo {
		rules = ProdutivoRules
	}
	return Apply(rules, strings.TrimSpace(text))
}

// Apply evaluates rules in order against text and returns the first match.
// It falls back to the generic code with an empty reply when no rule matches.
func Apply(rules []Rule, text string) (string, TemplateCode) {
	for _, rule := range rules {
		if c, ok := rule.Match(text); ok {
			return rule.Reply(c), rule.Code
		}
	}
	return "", TemplateGeneric
}

func matches(re *regexp.Regexp) func(string) (string, bool) {
	return func(text string) (string, bool) {
		return "", re.MatchString(text)
	}
}

func capture(re *regexp.Regexp, group int) func(string) (string, bool) {
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		return m[group], true
	}
}

func always(string) (string, bool) {
	return "", true
}

func fixed(reply string) func(string) string {
	return func(string) string {
		return reply
	}
}
