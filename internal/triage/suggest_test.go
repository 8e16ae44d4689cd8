package triage_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/JaimeStill/autou/internal/triage"
)

func TestSuggestProdutivo(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     triage.TemplateCode
		contains string
	}{
		{"status with ticket number", "Qual o status do chamado 12345?", triage.TemplateStatus, "chamado 12345"},
		{"ticket without status keyword", "Sobre o protocolo nº 987, alguma novidade?", triage.TemplateStatus, "chamado 987"},
		{"status keyword without number", "Poderiam enviar uma atualização?", triage.TemplateStatus, "da sua solicitação"},
		{"ticket word without number", "Abri um ticket ontem", triage.TemplateGeneric, "Recebemos sua solicitação"},
		{"error code", "Recebi erro 500 ao salvar", triage.TemplateError, "erro 500"},
		{"error code with punctuation", "ERRO: 404 na página", triage.TemplateError, "erro 404"},
		{"error without three digits", "Deu erro 42", triage.TemplateGeneric, "Recebemos sua solicitação"},
		{"accented letter between error and code", "O erro é 500", triage.TemplateGeneric, "Recebemos sua solicitação"},
		{"code glued to a letter", "erro 500x no login", triage.TemplateGeneric, "Recebemos sua solicitação"},
		{"access", "Preciso de acesso ao sistema financeiro", triage.TemplateAccess, "acesso/desbloqueio"},
		{"unlock", "Favor desbloquear meu usuário", triage.TemplateGeneric, "Recebemos sua solicitação"},
		{"unlocked noun", "Pedido de desbloqueio do usuário", triage.TemplateAccess, "acesso/desbloqueio"},
		{"password", "Esqueci minha senha", triage.TemplatePwd, "redefinição de senha"},
		{"keyword inside an accented word", "Ésenha inválida", triage.TemplateGeneric, "Recebemos sua solicitação"},
		{"reset", "Need a reset please", triage.TemplatePwd, "redefinição de senha"},
		{"attachment", "Segue anexo conforme solicitado", triage.TemplateAttach, "Recebemos o anexo"},
		{"attached", "Anexei a planilha", triage.TemplateAttach, "Recebemos o anexo"},
		{"generic", "Podem me ajudar com o relatório mensal?", triage.TemplateGeneric, "Recebemos sua solicitação"},
		{"surrounding whitespace", "   \n\tstatus?  ", triage.TemplateStatus, "da sua solicitação"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, code := triage.Suggest(tt.text, triage.Produtivo)
			if code != tt.want {
				t.Fatalf("code = %s, want %s (reply %q)", code, tt.want, reply)
			}
			if !strings.Contains(reply, tt.contains) {
				t.Errorf("reply %q does not contain %q", reply, tt.contains)
			}
		})
	}
}

func TestSuggestPriority(t *testing.T) {
	tests := []struct {
		name string
		text string
		want triage.TemplateCode
	}{
		{"status beats error", "Status do erro 500?", triage.TemplateStatus},
		{"error beats access", "erro 403 ao pedir acesso", triage.TemplateError},
		{"access beats password", "acesso bloqueado, preciso de nova senha", triage.TemplateAccess},
		{"password beats attachment", "Segue anexo o print da senha expirada", triage.TemplatePwd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, code := triage.Suggest(tt.text, triage.Produtivo); code != tt.want {
				t.Errorf("code = %s, want %s", code, tt.want)
			}
		})
	}
}

func TestSuggestImprodutivo(t *testing.T) {
	tests := []struct {
		name string
		text string
		want triage.TemplateCode
	}{
		{"ferias", "Estou de férias, fora do escritório", triage.TemplateOOO},
		{"ausente", "Estarei ausente até segunda", triage.TemplateOOO},
		{"out of office", "Out of office until Monday", triage.TemplateOOO},
		{"ooo token", "OOO - back next week", triage.TemplateOOO},
		{"thanks", "Obrigado pela ajuda, feliz natal!", triage.TemplateGeneric},
		{"produtivo keywords ignored", "Qual o status do chamado 12345?", triage.TemplateGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, code := triage.Suggest(tt.text, triage.Improdutivo)
			if code != tt.want {
				t.Fatalf("code = %s, want %s", code, tt.want)
			}
			if reply == "" {
				t.Error("empty reply")
			}
		})
	}
}

func TestSuggestUnknownLabelUsesImprodutivoRules(t *testing.T) {
	_, code := triage.Suggest("Estou ausente", triage.Label("other"))
	if code != triage.TemplateOOO {
		t.Errorf("code = %s, want ooo", code)
	}
}

func TestSuggestDeterministic(t *testing.T) {
	texts := []string{
		"Qual o status do chamado 12345?",
		"Segue anexo conforme solicitado",
		"Estou de férias, fora do escritório",
		"",
	}

	for _, text := range texts {
		for _, label := range []triage.Label{triage.Produtivo, triage.Improdutivo} {
			r1, c1 := triage.Suggest(text, label)
			r2, c2 := triage.Suggest(text, label)
			if r1 != r2 || c1 != c2 {
				t.Errorf("Suggest(%q, %s) not deterministic", text, label)
			}
			if !slices.Contains(triage.TemplateCodes, c1) {
				t.Errorf("Suggest(%q, %s) returned unknown code %q", text, label, c1)
			}
		}
	}
}

func TestRuleListsEndWithCatchAll(t *testing.T) {
	for name, rules := range map[string][]triage.Rule{
		"produtivo":   triage.ProdutivoRules,
		"improdutivo": triage.ImprodutivoRules,
	} {
		last := rules[len(rules)-1]
		if last.Code != triage.TemplateGeneric {
			t.Errorf("%s: last rule = %s, want generic", name, last.Code)
		}
		if _, ok := last.Match(""); !ok {
			t.Errorf("%s: last rule does not match empty text", name)
		}
	}
}

func TestApplyEmptyRules(t *testing.T) {
	reply, code := triage.Apply(nil, "anything")
	if reply != "" || code != triage.TemplateGeneric {
		t.Errorf("Apply(nil) = (%q, %s)", reply, code)
	}
}

func TestTemplateCodeValid(t *testing.T) {
	for _, c := range triage.TemplateCodes {
		if !c.Valid() {
			t.Errorf("%s reported invalid", c)
		}
	}
	if triage.TemplateCode("greeting").Valid() {
		t.Error("unknown code reported valid")
	}
}
