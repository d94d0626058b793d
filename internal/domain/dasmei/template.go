package dasmei

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared"
)

// TemplateType selects which message a template renders
type TemplateType string

const (
	TemplateBoletoDisponivel   TemplateType = "boleto_disponivel"
	TemplateBoletoPago         TemplateType = "boleto_pago"
	TemplateLembreteVencimento TemplateType = "lembrete_vencimento"
)

// IsValid reports whether t is a known template type
func (t TemplateType) IsValid() bool {
	switch t {
	case TemplateBoletoDisponivel, TemplateBoletoPago, TemplateLembreteVencimento:
		return true
	}
	return false
}

// Variables available to message templates
const (
	VarNome        = "nome"
	VarRazaoSocial = "razao_social"
	VarValor       = "valor"
	VarVencimento  = "vencimento"
	VarURLBoleto   = "url_boleto"
	VarPeriodo     = "periodo"
)

var placeholder = regexp.MustCompile(`\{([a-zA-Z_]+)\}`)

// MessageTemplate is an editable WhatsApp/e-mail message body with {var}
// placeholders.
type MessageTemplate struct {
	ID        uuid.UUID
	Nome      string
	Tipo      TemplateType
	Conteudo  string
	Ativo     bool
	Variaveis []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewMessageTemplate creates an active template and records the variables it
// references.
func NewMessageTemplate(nome string, tipo TemplateType, conteudo string) (*MessageTemplate, error) {
	if strings.TrimSpace(nome) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Nome do template é obrigatório")
	}
	if !tipo.IsValid() {
		return nil, shared.NewDomainError("INVALID_TEMPLATE_TYPE", "Tipo de template inválido: "+string(tipo))
	}
	if strings.TrimSpace(conteudo) == "" {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Conteúdo do template é obrigatório")
	}
	now := time.Now()
	return &MessageTemplate{
		ID:        uuid.New(),
		Nome:      strings.TrimSpace(nome),
		Tipo:      tipo,
		Conteudo:  conteudo,
		Ativo:     true,
		Variaveis: ExtractVariables(conteudo),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetContent replaces the body and refreshes the variable list
func (t *MessageTemplate) SetContent(conteudo string) error {
	if strings.TrimSpace(conteudo) == "" {
		return shared.NewDomainError("INVALID_CONTENT", "Conteúdo do template é obrigatório")
	}
	t.Conteudo = conteudo
	t.Variaveis = ExtractVariables(conteudo)
	t.UpdatedAt = time.Now()
	return nil
}

// Render substitutes every {var} present in vars. Unknown placeholders are
// left untouched.
func (t *MessageTemplate) Render(vars map[string]string) string {
	return RenderTemplate(t.Conteudo, vars)
}

// RenderTemplate substitutes {var} placeholders in content
func RenderTemplate(content string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(content, func(m string) string {
		if v, ok := vars[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

// ExtractVariables lists the distinct placeholders in content, in order
func ExtractVariables(content string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, m := range placeholder.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

// Built-in message bodies used when no template of the type is stored
const (
	DefaultBoletoDisponivel = "🏦 *Boleto DAS-MEI Disponível*\n\nOlá {nome}!\n\nSeu boleto DAS-MEI está disponível:\n\n💰 Valor: R$ {valor}\n📅 Vencimento: {vencimento}\n\n🔗 Link para download:\n{url_boleto}\n\n_Mensagem automática - Prosperar Contabilidade_"
	DefaultBoletoPago       = "✅ *DAS-MEI Quitado*\n\nOlá {nome}!\n\nSeu DAS-MEI já está quitado!\n\n💰 Valor: R$ {valor}\n📅 Vencimento: {vencimento}\n\n_Mensagem automática - Prosperar Contabilidade_"
	DefaultLembrete         = "⚠️ *Lembrete: DAS-MEI Vence Hoje*\n\nOlá {nome}!\n\nLembramos que seu DAS-MEI vence hoje:\n\n💰 Valor: R$ {valor}\n📅 Vencimento: {vencimento}\n\nNão esqueça de efetuar o pagamento!\n\n_Mensagem automática - Prosperar Contabilidade_"
)

// DefaultContent returns the built-in body for a template type
func DefaultContent(tipo TemplateType) string {
	switch tipo {
	case TemplateBoletoDisponivel:
		return DefaultBoletoDisponivel
	case TemplateBoletoPago:
		return DefaultBoletoPago
	case TemplateLembreteVencimento:
		return DefaultLembrete
	}
	return ""
}
