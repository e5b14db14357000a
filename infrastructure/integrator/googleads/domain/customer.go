package googleadsdomain

import "strings"

type Customer struct {
	ResourceName    string `json:"resourceName"`
	ID              string `json:"id"`
	DescriptiveName string `json:"descriptiveName"`
	CurrencyCode    string `json:"currencyCode"`
	Manager         bool   `json:"manager"`
}

type ListAccessibleCustomersResponse struct {
	ResourceNames []string `json:"resourceNames"`
}

// CustomerIDFromResourceName extrai o id de "customers/1234567890"
func CustomerIDFromResourceName(resourceName string) string {
	return strings.TrimPrefix(resourceName, "customers/")
}

// NormalizeCustomerID remove os traços do formato exibido no painel (123-456-7890)
func NormalizeCustomerID(id string) string {
	return strings.ReplaceAll(strings.TrimSpace(id), "-", "")
}
