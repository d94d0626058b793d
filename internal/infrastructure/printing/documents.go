package printing

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"time"

	"go.uber.org/zap"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/application/ports"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/contratacao"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
)

//go:embed templates/*.html
var templateFS embed.FS

// Document titles
const (
	TitleRegistration = "Cadastro de Empresa"
	TitleContratacao  = "Contratação de Funcionário"
)

// Company identifies the firm in document headers
type Company struct {
	Name    string
	Address string
}

// Documents renders the submission documents. It implements
// ports.DocumentRenderer.
type Documents struct {
	renderer     PDFRenderer
	registration *template.Template
	contratacao  *template.Template
	company      Company
	logger       *zap.Logger
	now          func() time.Time
}

type documentView struct {
	Title        string
	Company      Company
	GeneratedAt  time.Time
	Registration *registration.BusinessRegistration
	Contratacao  *contratacao.ContratacaoFuncionario
}

// NewDocuments parses the embedded templates
func NewDocuments(renderer PDFRenderer, company Company, logger *zap.Logger) (*Documents, error) {
	reg, err := parseDocument("registration.html")
	if err != nil {
		return nil, err
	}
	con, err := parseDocument("contratacao.html")
	if err != nil {
		return nil, err
	}
	return &Documents{
		renderer:     renderer,
		registration: reg,
		contratacao:  con,
		company:      company,
		logger:       logger,
		now:          time.Now,
	}, nil
}

func parseDocument(name string) (*template.Template, error) {
	t, err := template.New(name).Funcs(templateFuncs()).ParseFS(templateFS, "templates/base.html", "templates/"+name)
	if err != nil {
		return nil, NewRenderError(ErrCodeTemplateFailed, "failed to parse "+name, err)
	}
	return t, nil
}

// RenderRegistration renders the "Cadastro de Empresa" PDF
func (d *Documents) RenderRegistration(ctx context.Context, reg *registration.BusinessRegistration) ([]byte, error) {
	html, err := d.RegistrationHTML(reg)
	if err != nil {
		return nil, err
	}
	return d.render(ctx, TitleRegistration+" - "+reg.RazaoSocial, html)
}

// RenderContratacao renders the "Contratação de Funcionário" PDF
func (d *Documents) RenderContratacao(ctx context.Context, c *contratacao.ContratacaoFuncionario) ([]byte, error) {
	html, err := d.ContratacaoHTML(c)
	if err != nil {
		return nil, err
	}
	return d.render(ctx, TitleContratacao+" - "+c.Funcionario.Nome, html)
}

// RegistrationHTML executes the registration template
func (d *Documents) RegistrationHTML(reg *registration.BusinessRegistration) (string, error) {
	return d.execute(d.registration, documentView{
		Title:        TitleRegistration,
		Company:      d.company,
		GeneratedAt:  d.now(),
		Registration: reg,
	})
}

// ContratacaoHTML executes the hiring template
func (d *Documents) ContratacaoHTML(c *contratacao.ContratacaoFuncionario) (string, error) {
	return d.execute(d.contratacao, documentView{
		Title:       TitleContratacao,
		Company:     d.company,
		GeneratedAt: d.now(),
		Contratacao: c,
	})
}

func (d *Documents) execute(t *template.Template, view documentView) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, view); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute "+t.Name(), err)
	}
	return buf.String(), nil
}

func (d *Documents) render(ctx context.Context, title, html string) ([]byte, error) {
	result, err := d.renderer.Render(ctx, &RenderRequest{
		HTML:       html,
		Title:      title,
		Margins:    DefaultMargins(),
		FooterHTML: footerHTML,
	})
	if err != nil {
		d.logger.Warn("Document rendering failed", zap.String("title", title), zap.Error(err))
		return nil, err
	}
	return result.PDFData, nil
}

const footerHTML = `<div style="font-size:8px;width:100%;text-align:center;color:#777;">` +
	`<span class="pageNumber"></span> / <span class="totalPages"></span></div>`

var _ ports.DocumentRenderer = (*Documents)(nil)
