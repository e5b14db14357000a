package metadomain

type AdAccount struct {
	ID            string `json:"id"`
	AccountID     string `json:"account_id"`
	Name          string `json:"name"`
	AccountStatus int    `json:"account_status"`
}

type ResponseAdAccounts struct {
	Data   []AdAccount `json:"data"`
	Paging *Paging     `json:"paging"`
}
