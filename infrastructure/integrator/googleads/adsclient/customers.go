package adsclient

import (
	"context"
	"net/http"

	googleadsdomain "github.com/vfg2006/ads-report-dispatcher/infrastructure/integrator/googleads/domain"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
)

// ListAccessibleCustomers devolve os ids das contas acessíveis pelo token
func (c *GoogleAdsClient) ListAccessibleCustomers(ctx context.Context, accessToken string) ([]string, error) {
	body, err := c.do(ctx, http.MethodGet, "customers:listAccessibleCustomers", accessToken, nil)
	if err != nil {
		return nil, err
	}

	var response googleadsdomain.ListAccessibleCustomersResponse
	if err := decodeObject(body, &response); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(response.ResourceNames))
	for _, name := range response.ResourceNames {
		ids = append(ids, googleadsdomain.CustomerIDFromResourceName(name))
	}

	return ids, nil
}

// GetCustomer busca os metadados da conta, usados para detectar contas gerenciadoras
func (c *GoogleAdsClient) GetCustomer(ctx context.Context, customerID, accessToken string) (*googleadsdomain.Customer, error) {
	body, err := c.do(ctx, http.MethodGet, "customers/"+googleadsdomain.NormalizeCustomerID(customerID), accessToken, nil)
	if err != nil {
		return nil, err
	}

	var customer googleadsdomain.Customer
	if err := decodeObject(body, &customer); err != nil {
		return nil, err
	}

	if customer.ResourceName == "" && customer.ID == "" {
		return nil, domain.NewPlatformError(nil, "google_ads: resposta de conta sem identificação")
	}

	return &customer, nil
}
