package infosimples

type simplesDASRequest struct {
	Token             string `json:"token"`
	CNPJ              string `json:"cnpj"`
	Periodo           string `json:"periodo"`
	Timeout           int    `json:"timeout"`
	IgnoreSiteReceipt bool   `json:"ignore_site_receipt"`
}

type simplesDASResponse struct {
	Code        int              `json:"code"`
	CodeMessage string           `json:"code_message"`
	Errors      []string         `json:"errors"`
	Data        []simplesDASData `json:"data"`
}

type simplesDASData struct {
	CNPJ        string                       `json:"cnpj"`
	RazaoSocial string                       `json:"razaoSocial"`
	Periodo     string                       `json:"periodo"`
	Periodos    map[string]simplesDASPeriodo `json:"periodos"`
}

type simplesDASPeriodo struct {
	URLDas         string `json:"urlDas"`
	DataVencimento string `json:"dataVencimento"`
	ValorTotalDas  string `json:"valorTotalDas"`
	Situacao       string `json:"situacao"`
	Principal      string `json:"principal"`
	Multas         string `json:"multas"`
	Juros          string `json:"juros"`
	Total          string `json:"total"`
}
