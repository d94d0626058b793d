package cliente

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/cliente"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	csvimport "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/import"
	"github.com/shopspring/decimal"
)

// ClienteRequest carries every editable client field. Dates accept
// dd/mm/yyyy or ISO format.
type ClienteRequest struct {
	RazaoSocial        string `json:"razao_social" binding:"required,max=255"`
	NomeFantasia       string `json:"nome_fantasia" binding:"max=255"`
	CNPJ               string `json:"cnpj" binding:"omitempty,cnpj"`
	InscricaoEstadual  string `json:"inscricao_estadual"`
	InscricaoMunicipal string `json:"inscricao_municipal"`
	NIRE               string `json:"nire"`
	DataAbertura       string `json:"data_abertura"`
	ClienteDesde       string `json:"cliente_desde"`

	Endereco    string `json:"endereco"`
	Numero      string `json:"numero"`
	Complemento string `json:"complemento"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"cidade"`
	Estado      string `json:"estado" binding:"omitempty,len=2"`
	CEP         string `json:"cep"`

	TelefoneEmpresa string `json:"telefone_comercial"`
	EmailEmpresa    string `json:"email" binding:"omitempty,email"`
	Contato         string `json:"contato"`
	Celular         string `json:"celular"`
	Contato2        string `json:"contato_2"`
	Celular2        string `json:"celular_2"`

	RegimeTributario      string          `json:"regime_tributario"`
	AtividadePrincipal    string          `json:"atividade_principal"`
	AtividadesSecundarias string          `json:"atividades_secundarias"`
	CapitalSocial         decimal.Decimal `json:"capital_social"`
	MetragemOcupada       string          `json:"metragem_ocupada"`
	NotaServico           string          `json:"nota_servico"`
	NotaVenda             string          `json:"nota_venda"`

	CertificadoDigital  string `json:"certificado_digital_empresa"`
	SenhaCertificado    string `json:"senha_certificado_digital_empresa"`
	ValidadeCertificado string `json:"validade_certificado_digital_empresa"`

	ValorMensalidade decimal.Decimal `json:"valor_mensalidade"`
	DiaVencimento    int             `json:"dia_vencimento" binding:"omitempty,min=1,max=31"`
	Status           string          `json:"status" binding:"omitempty,oneof=ativo inativo suspenso"`

	ImpostoRenda     string          `json:"imposto_renda"`
	IrAnoReferencia  int             `json:"ir_ano_referencia" binding:"omitempty,min=2000,max=2100"`
	IrStatus         string          `json:"ir_status"`
	IrDataEntrega    string          `json:"ir_data_entrega"`
	IrValorPagar     decimal.Decimal `json:"ir_valor_pagar"`
	IrValorRestituir decimal.Decimal `json:"ir_valor_restituir"`
	IrObservacoes    string          `json:"ir_observacoes"`

	Socios []registration.Socio `json:"socios"`

	PossuiFuncionarios     bool `json:"possui_funcionarios"`
	QuantidadeFuncionarios int  `json:"quantidade_funcionarios" binding:"gte=0"`
	PossuiProLabore        bool `json:"possui_pro_labore"`

	Documentos  []string `json:"documentos"`
	Origem      string   `json:"origem" binding:"omitempty,oneof=website importacao manual"`
	IndicadoPor string   `json:"indicado_por"`
	Observacoes string   `json:"observacoes"`
}

// toDomain converts the request, parsing its date fields
func (r ClienteRequest) toDomain() (cliente.Cliente, error) {
	dates := make([]*time.Time, 4)
	for i, raw := range []string{r.DataAbertura, r.ClienteDesde, r.ValidadeCertificado, r.IrDataEntrega} {
		d, err := csvimport.ParseDate(raw)
		if err != nil {
			return cliente.Cliente{}, errInvalidDate(raw)
		}
		dates[i] = d
	}
	return cliente.Cliente{
		RazaoSocial:            r.RazaoSocial,
		NomeFantasia:           r.NomeFantasia,
		CNPJ:                   r.CNPJ,
		InscricaoEstadual:      r.InscricaoEstadual,
		InscricaoMunicipal:     r.InscricaoMunicipal,
		NIRE:                   r.NIRE,
		DataAbertura:           dates[0],
		ClienteDesde:           dates[1],
		Endereco:               r.Endereco,
		Numero:                 r.Numero,
		Complemento:            r.Complemento,
		Bairro:                 r.Bairro,
		Cidade:                 r.Cidade,
		Estado:                 r.Estado,
		CEP:                    r.CEP,
		TelefoneEmpresa:        r.TelefoneEmpresa,
		EmailEmpresa:           r.EmailEmpresa,
		Contato:                r.Contato,
		Celular:                r.Celular,
		Contato2:               r.Contato2,
		Celular2:               r.Celular2,
		RegimeTributario:       r.RegimeTributario,
		AtividadePrincipal:     r.AtividadePrincipal,
		AtividadesSecundarias:  r.AtividadesSecundarias,
		CapitalSocial:          r.CapitalSocial,
		MetragemOcupada:        r.MetragemOcupada,
		NotaServico:            r.NotaServico,
		NotaVenda:              r.NotaVenda,
		CertificadoDigital:     r.CertificadoDigital,
		SenhaCertificado:       r.SenhaCertificado,
		ValidadeCertificado:    dates[2],
		ValorMensalidade:       r.ValorMensalidade,
		DiaVencimento:          r.DiaVencimento,
		Status:                 cliente.Status(r.Status),
		ImpostoRenda:           r.ImpostoRenda,
		IrAnoReferencia:        r.IrAnoReferencia,
		IrStatus:               r.IrStatus,
		IrDataEntrega:          dates[3],
		IrValorPagar:           r.IrValorPagar,
		IrValorRestituir:       r.IrValorRestituir,
		IrObservacoes:          r.IrObservacoes,
		Socios:                 r.Socios,
		PossuiFuncionarios:     r.PossuiFuncionarios,
		QuantidadeFuncionarios: r.QuantidadeFuncionarios,
		PossuiProLabore:        r.PossuiProLabore,
		Documentos:             r.Documentos,
		Origem:                 r.Origem,
		IndicadoPor:            r.IndicadoPor,
		Observacoes:            r.Observacoes,
	}, nil
}

// PromoteRequest holds optional client fields merged over the data copied
// from the registration
type PromoteRequest struct {
	CNPJ             string          `json:"cnpj" binding:"omitempty,cnpj"`
	RegimeTributario string          `json:"regime_tributario"`
	Cidade           string          `json:"cidade"`
	Estado           string          `json:"estado" binding:"omitempty,len=2"`
	ValorMensalidade decimal.Decimal `json:"valor_mensalidade"`
	DiaVencimento    int             `json:"dia_vencimento" binding:"omitempty,min=1,max=31"`
	ClienteDesde     string          `json:"cliente_desde"`
	Observacoes      string          `json:"observacoes"`
}

// ListFilter represents filter options for the client list
type ListFilter struct {
	Search             string `form:"search"`
	Cidade             string `form:"cidade"`
	RegimeTributario   string `form:"regime_tributario"`
	Status             string `form:"status" binding:"omitempty,oneof=ativo inativo suspenso"`
	DataAberturaInicio string `form:"data_abertura_inicio"`
	DataAberturaFim    string `form:"data_abertura_fim"`
	ClienteDesdeInicio string `form:"cliente_desde_inicio"`
	ClienteDesdeFim    string `form:"cliente_desde_fim"`
	PossuiFuncionarios *bool  `form:"possui_funcionarios"`
	PossuiProLabore    *bool  `form:"possui_pro_labore"`
	SortBy             string `form:"sort_by"`
	SortOrder          string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
	Page               int    `form:"page" binding:"omitempty,min=1"`
	PageSize           int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

func (f ListFilter) toDomain() (cliente.Filter, error) {
	out := cliente.Filter{
		Search:             f.Search,
		Cidade:             f.Cidade,
		RegimeTributario:   f.RegimeTributario,
		Status:             cliente.Status(f.Status),
		PossuiFuncionarios: f.PossuiFuncionarios,
		PossuiProLabore:    f.PossuiProLabore,
		SortBy:             f.SortBy,
		SortOrder:          f.SortOrder,
		Page:               f.Page,
		PageSize:           f.PageSize,
	}
	targets := []**time.Time{&out.DataAberturaInicio, &out.DataAberturaFim, &out.ClienteDesdeInicio, &out.ClienteDesdeFim}
	for i, raw := range []string{f.DataAberturaInicio, f.DataAberturaFim, f.ClienteDesdeInicio, f.ClienteDesdeFim} {
		d, err := csvimport.ParseDate(raw)
		if err != nil {
			return cliente.Filter{}, errInvalidDate(raw)
		}
		*targets[i] = d
	}
	if out.Page < 1 {
		out.Page = 1
	}
	if out.PageSize < 1 {
		out.PageSize = 50
	}
	return out, nil
}

// ClienteResponse is a client in API responses
type ClienteResponse struct {
	ID                     uuid.UUID            `json:"id"`
	RazaoSocial            string               `json:"razao_social"`
	NomeFantasia           string               `json:"nome_fantasia"`
	CNPJ                   string               `json:"cnpj"`
	InscricaoEstadual      string               `json:"inscricao_estadual"`
	InscricaoMunicipal     string               `json:"inscricao_municipal"`
	NIRE                   string               `json:"nire"`
	DataAbertura           *time.Time           `json:"data_abertura"`
	ClienteDesde           *time.Time           `json:"cliente_desde"`
	Endereco               string               `json:"endereco"`
	Numero                 string               `json:"numero"`
	Complemento            string               `json:"complemento"`
	Bairro                 string               `json:"bairro"`
	Cidade                 string               `json:"cidade"`
	Estado                 string               `json:"estado"`
	CEP                    string               `json:"cep"`
	TelefoneEmpresa        string               `json:"telefone_comercial"`
	EmailEmpresa           string               `json:"email"`
	Contato                string               `json:"contato"`
	Celular                string               `json:"celular"`
	Contato2               string               `json:"contato_2"`
	Celular2               string               `json:"celular_2"`
	RegimeTributario       string               `json:"regime_tributario"`
	AtividadePrincipal     string               `json:"atividade_principal"`
	AtividadesSecundarias  string               `json:"atividades_secundarias"`
	CapitalSocial          decimal.Decimal      `json:"capital_social"`
	MetragemOcupada        string               `json:"metragem_ocupada"`
	NotaServico            string               `json:"nota_servico"`
	NotaVenda              string               `json:"nota_venda"`
	CertificadoDigital     string               `json:"certificado_digital_empresa"`
	ValidadeCertificado    *time.Time           `json:"validade_certificado_digital_empresa"`
	ValorMensalidade       decimal.Decimal      `json:"valor_mensalidade"`
	DiaVencimento          int                  `json:"dia_vencimento"`
	Status                 string               `json:"status"`
	ImpostoRenda           string               `json:"imposto_renda"`
	IrAnoReferencia        int                  `json:"ir_ano_referencia"`
	IrStatus               string               `json:"ir_status"`
	IrDataEntrega          *time.Time           `json:"ir_data_entrega"`
	IrValorPagar           decimal.Decimal      `json:"ir_valor_pagar"`
	IrValorRestituir       decimal.Decimal      `json:"ir_valor_restituir"`
	IrObservacoes          string               `json:"ir_observacoes"`
	Socios                 []registration.Socio `json:"socios"`
	PossuiFuncionarios     bool                 `json:"possui_funcionarios"`
	QuantidadeFuncionarios int                  `json:"quantidade_funcionarios"`
	PossuiProLabore        bool                 `json:"possui_pro_labore"`
	Documentos             []string             `json:"documentos"`
	Origem                 string               `json:"origem"`
	IndicadoPor            string               `json:"indicado_por"`
	Observacoes            string               `json:"observacoes"`
	CreatedAt              time.Time            `json:"created_at"`
	UpdatedAt              time.Time            `json:"updated_at"`
}

// ToClienteResponse converts a domain client. The certificate password is
// not exposed.
func ToClienteResponse(c *cliente.Cliente) ClienteResponse {
	return ClienteResponse{
		ID:                     c.ID,
		RazaoSocial:            c.RazaoSocial,
		NomeFantasia:           c.NomeFantasia,
		CNPJ:                   c.CNPJ,
		InscricaoEstadual:      c.InscricaoEstadual,
		InscricaoMunicipal:     c.InscricaoMunicipal,
		NIRE:                   c.NIRE,
		DataAbertura:           c.DataAbertura,
		ClienteDesde:           c.ClienteDesde,
		Endereco:               c.Endereco,
		Numero:                 c.Numero,
		Complemento:            c.Complemento,
		Bairro:                 c.Bairro,
		Cidade:                 c.Cidade,
		Estado:                 c.Estado,
		CEP:                    c.CEP,
		TelefoneEmpresa:        c.TelefoneEmpresa,
		EmailEmpresa:           c.EmailEmpresa,
		Contato:                c.Contato,
		Celular:                c.Celular,
		Contato2:               c.Contato2,
		Celular2:               c.Celular2,
		RegimeTributario:       c.RegimeTributario,
		AtividadePrincipal:     c.AtividadePrincipal,
		AtividadesSecundarias:  c.AtividadesSecundarias,
		CapitalSocial:          c.CapitalSocial,
		MetragemOcupada:        c.MetragemOcupada,
		NotaServico:            c.NotaServico,
		NotaVenda:              c.NotaVenda,
		CertificadoDigital:     c.CertificadoDigital,
		ValidadeCertificado:    c.ValidadeCertificado,
		ValorMensalidade:       c.ValorMensalidade,
		DiaVencimento:          c.DiaVencimento,
		Status:                 string(c.Status),
		ImpostoRenda:           c.ImpostoRenda,
		IrAnoReferencia:        c.IrAnoReferencia,
		IrStatus:               c.IrStatus,
		IrDataEntrega:          c.IrDataEntrega,
		IrValorPagar:           c.IrValorPagar,
		IrValorRestituir:       c.IrValorRestituir,
		IrObservacoes:          c.IrObservacoes,
		Socios:                 c.Socios,
		PossuiFuncionarios:     c.PossuiFuncionarios,
		QuantidadeFuncionarios: c.QuantidadeFuncionarios,
		PossuiProLabore:        c.PossuiProLabore,
		Documentos:             c.Documentos,
		Origem:                 c.Origem,
		IndicadoPor:            c.IndicadoPor,
		Observacoes:            c.Observacoes,
		CreatedAt:              c.CreatedAt,
		UpdatedAt:              c.UpdatedAt,
	}
}

// ListResult is a page of clients
type ListResult struct {
	Items    []ClienteResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// IrHistoricoRequest edits one year of the income tax history
type IrHistoricoRequest struct {
	Status         *string          `json:"status"`
	DataEntrega    *string          `json:"data_entrega"`
	ValorPagar     *decimal.Decimal `json:"valor_pagar"`
	ValorRestituir *decimal.Decimal `json:"valor_restituir"`
	Observacoes    *string          `json:"observacoes"`
}

// IrHistoricoResponse is a yearly income tax record
type IrHistoricoResponse struct {
	ID             uuid.UUID       `json:"id"`
	ClienteID      uuid.UUID       `json:"cliente_id"`
	Ano            int             `json:"ano"`
	Status         string          `json:"status"`
	DataEntrega    *time.Time      `json:"data_entrega"`
	ValorPagar     decimal.Decimal `json:"valor_pagar"`
	ValorRestituir decimal.Decimal `json:"valor_restituir"`
	Observacoes    string          `json:"observacoes"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToIrHistoricoResponse converts a history row
func ToIrHistoricoResponse(h *cliente.IrHistorico) IrHistoricoResponse {
	return IrHistoricoResponse{
		ID:             h.ID,
		ClienteID:      h.ClienteID,
		Ano:            h.Ano,
		Status:         h.Status,
		DataEntrega:    h.DataEntrega,
		ValorPagar:     h.ValorPagar,
		ValorRestituir: h.ValorRestituir,
		Observacoes:    h.Observacoes,
		UpdatedAt:      h.UpdatedAt,
	}
}

// ImportResult summarizes a CSV import
type ImportResult struct {
	Imported    int                  `json:"imported"`
	Skipped     int                  `json:"skipped"`
	TotalRows   int                  `json:"total_rows"`
	Errors      []csvimport.RowError `json:"errors"`
	ErrorCount  int                  `json:"error_count"`
	IsTruncated bool                 `json:"is_truncated"`
}
