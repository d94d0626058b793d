package cliente

import (
	"fmt"
	"strings"
	"time"

	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/cliente"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/registration"
	"github.com/patrickdauer/Sistema-Prosperar-sub000/internal/domain/shared/valueobject"
	csvimport "github.com/patrickdauer/Sistema-Prosperar-sub000/internal/infrastructure/import"
)

// Spreadsheet columns of the client export
const (
	colDataAbertura          = "DATA ABERTURA"
	colClienteDesde          = "CLIENTE DESDE"
	colRazaoSocial           = "RAZÃO SOCIAL"
	colNomeFantasia          = "NOME FANTASIA"
	colImpostoRenda          = "IMPOSTO DE RENDA"
	colCNPJ                  = "CNPJ"
	colRegimeTributario      = "REGIME TRIBUTÁRIO"
	colNIRE                  = "NIRE"
	colInscricaoEstadual     = "INSCRIÇÃO ESTADUAL"
	colInscricaoMunicipal    = "INSCRIÇÃO MUNICIPAL"
	colTelefoneEmpresa       = "TELEFONE EMPRESA"
	colEmailEmpresa          = "EMAIL EMPRESA"
	colContato               = "CONTATO"
	colCelular               = "CELULAR"
	colContato2              = "CONTATO 2"
	colCelular2              = "CELULAR 2"
	colCEP                   = "CEP"
	colEndereco              = "ENDEREÇO"
	colNumero                = "NUMERO"
	colComplemento           = "COMPLEMENTO"
	colBairro                = "BAIRRO"
	colCidade                = "CIDADE"
	colEstado                = "ESTADO"
	colNotaServico           = "NOTA DE SERVIÇO"
	colNotaVenda             = "NOTA DE VENDA"
	colMetragemOcupada       = "METRAGEM OCUPADA"
	colCapitalSocial         = "CAPITAL SOCIAL"
	colAtividadePrincipal    = "ATIVIDADE PRINCIPAL"
	colAtividadesSecundarias = "ATIVIDADES SECUNDÁRIAS"
	colCertificado           = "CERTIFICADO DIGITAL EMPRESA"
	colSenhaCertificado      = "SENHA CERTIFICADO DIGITAL EMPRESA"
	colValidadeCertificado   = "VALIDADE CERTIFICADO DIGITAL EMPRESA"
	colValorMensalidade      = "VALOR MENSALIDADE"
	colDiaVencimento         = "DIA VENCIMENTO"
	colPossuiFuncionarios    = "POSSUI FUNCIONÁRIOS"
	colPossuiProLabore       = "POSSUI PRÓ-LABORE"
	colObservacoes           = "OBSERVAÇÕES"
)

// rowToCliente maps one spreadsheet row. Invalid cells are recorded in errs
// and reject the row.
func rowToCliente(row *csvimport.Row, errs *csvimport.ErrorCollection) (cliente.Cliente, bool) {
	ok := true
	c := cliente.Cliente{
		RazaoSocial:           row.Get(colRazaoSocial),
		NomeFantasia:          row.Get(colNomeFantasia),
		ImpostoRenda:          row.Get(colImpostoRenda),
		CNPJ:                  valueobject.NormalizeCNPJ(row.Get(colCNPJ)),
		RegimeTributario:      row.Get(colRegimeTributario),
		NIRE:                  row.Get(colNIRE),
		InscricaoEstadual:     row.Get(colInscricaoEstadual),
		InscricaoMunicipal:    row.Get(colInscricaoMunicipal),
		TelefoneEmpresa:       row.Get(colTelefoneEmpresa),
		EmailEmpresa:          row.Get(colEmailEmpresa),
		Contato:               row.Get(colContato),
		Celular:               row.Get(colCelular),
		Contato2:              row.Get(colContato2),
		Celular2:              row.Get(colCelular2),
		CEP:                   row.Get(colCEP),
		Endereco:              row.Get(colEndereco),
		Numero:                row.Get(colNumero),
		Complemento:           row.Get(colComplemento),
		Bairro:                row.Get(colBairro),
		Cidade:                row.Get(colCidade),
		Estado:                row.Get(colEstado),
		NotaServico:           row.Get(colNotaServico),
		NotaVenda:             row.Get(colNotaVenda),
		MetragemOcupada:       row.Get(colMetragemOcupada),
		AtividadePrincipal:    row.Get(colAtividadePrincipal),
		AtividadesSecundarias: row.Get(colAtividadesSecundarias),
		CertificadoDigital:    row.Get(colCertificado),
		SenhaCertificado:      row.Get(colSenhaCertificado),
		Observacoes:           row.Get(colObservacoes),
		Origem:                cliente.OrigemImportacao,
		Status:                cliente.StatusAtivo,
	}

	if c.RazaoSocial == "" {
		errs.AddRequiredError(row.LineNumber, colRazaoSocial)
		ok = false
	}
	if c.CNPJ != "" && len(c.CNPJ) != 14 {
		errs.AddFormatError(row.LineNumber, colCNPJ, "14 dígitos", row.Get(colCNPJ))
		ok = false
	}

	dates := []struct {
		col    string
		target **time.Time
	}{
		{colDataAbertura, &c.DataAbertura},
		{colClienteDesde, &c.ClienteDesde},
		{colValidadeCertificado, &c.ValidadeCertificado},
	}
	for _, d := range dates {
		v, err := csvimport.ParseDate(row.Get(d.col))
		if err != nil {
			errs.AddFormatError(row.LineNumber, d.col, "dd/mm/aaaa", row.Get(d.col))
			ok = false
			continue
		}
		*d.target = v
	}

	var err error
	if c.CapitalSocial, err = csvimport.ParseDecimal(row.Get(colCapitalSocial)); err != nil {
		errs.AddFormatError(row.LineNumber, colCapitalSocial, "valor em reais", row.Get(colCapitalSocial))
		ok = false
	}
	if c.ValorMensalidade, err = csvimport.ParseDecimal(row.Get(colValorMensalidade)); err != nil {
		errs.AddFormatError(row.LineNumber, colValorMensalidade, "valor em reais", row.Get(colValorMensalidade))
		ok = false
	}
	if c.DiaVencimento, err = csvimport.ParseInt(row.Get(colDiaVencimento)); err != nil {
		errs.AddFormatError(row.LineNumber, colDiaVencimento, "número", row.Get(colDiaVencimento))
		ok = false
	}
	if c.PossuiFuncionarios, err = csvimport.ParseBool(row.Get(colPossuiFuncionarios)); err != nil {
		errs.AddFormatError(row.LineNumber, colPossuiFuncionarios, "SIM ou NÃO", row.Get(colPossuiFuncionarios))
		ok = false
	}
	if c.PossuiProLabore, err = csvimport.ParseBool(row.Get(colPossuiProLabore)); err != nil {
		errs.AddFormatError(row.LineNumber, colPossuiProLabore, "SIM ou NÃO", row.Get(colPossuiProLabore))
		ok = false
	}

	c.Socios = rowSocios(row)
	return c, ok
}

// rowSocios reads the "SÓCIO n" column groups, stopping at the first empty one
func rowSocios(row *csvimport.Row) []registration.Socio {
	var socios []registration.Socio
	for n := 1; n <= maxImportSocios; n++ {
		col := func(prefix string) string {
			return row.Get(fmt.Sprintf("%s SÓCIO %d", prefix, n))
		}
		nome := row.Get(fmt.Sprintf("SÓCIO %d", n))
		if nome == "" {
			break
		}
		pai, mae := splitFiliacao(col("FILIAÇÃO"))
		socios = append(socios, registration.Socio{
			Nome:           nome,
			CPF:            valueobject.OnlyDigits(col("CPF")),
			SenhaGov:       col("SENHA GOV"),
			Nacionalidade:  col("NACIONALIDADE"),
			DataNascimento: col("DATA DE NASCIMENTO"),
			FiliacaoPai:    pai,
			FiliacaoMae:    mae,
			Profissao:      col("PROFISSÃO"),
			EstadoCivil:    col("ESTADO CIVIL"),
			Endereco:       col("ENDEREÇO"),
			Telefone:       col("TELEFONE"),
			Email:          col("E-MAIL"),
			RG:             col("RG"),
		})
	}
	return socios
}

// splitFiliacao splits "PAI / MÃE" or "PAI E MÃE" cells. A single name is
// taken as the mother.
func splitFiliacao(s string) (pai, mae string) {
	for _, sep := range []string{"/", " E ", " e "} {
		if parts := strings.SplitN(s, sep, 2); len(parts) == 2 {
			return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		}
	}
	return "", strings.TrimSpace(s)
}
