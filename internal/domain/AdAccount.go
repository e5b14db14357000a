package domain

// AdAccount é uma conta de anúncios acessível com o token do tenant.
// Manager indica contas agregadoras (MCC no Google Ads), que não expõem
// métricas de campanha diretamente.
type AdAccount struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Manager  bool     `json:"manager"`
	Platform Platform `json:"platform"`
}

// ConnectionStatus resume a situação da integração de um tenant
type ConnectionStatus struct {
	TenantID          string       `json:"tenant_id"`
	Platform          Platform     `json:"platform"`
	Connected         bool         `json:"connected"`
	SelectedAccountID string       `json:"selected_account_id,omitempty"`
	Accounts          []*AdAccount `json:"accounts"`
}
