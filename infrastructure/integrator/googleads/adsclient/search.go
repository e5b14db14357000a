package adsclient

import (
	"context"
	"fmt"
	"net/http"

	googleadsdomain "github.com/vfg2006/ads-report-dispatcher/infrastructure/integrator/googleads/domain"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
)

// Search executa uma consulta GAQL e segue o nextPageToken até o fim
func (c *GoogleAdsClient) Search(ctx context.Context, customerID, accessToken, query string) ([]googleadsdomain.SearchRow, error) {
	path := fmt.Sprintf("customers/%s/googleAds:search", googleadsdomain.NormalizeCustomerID(customerID))

	rows := make([]googleadsdomain.SearchRow, 0)
	request := googleadsdomain.SearchRequest{Query: query}

	for page := 0; ; page++ {
		if page == maxPages {
			return nil, domain.NewPlatformError(nil, fmt.Sprintf("google_ads: busca excedeu o limite de %d páginas", maxPages))
		}

		body, err := c.do(ctx, http.MethodPost, path, accessToken, request)
		if err != nil {
			return nil, err
		}

		// Sem linhas a API omite "results" e devolve apenas o fieldMask
		var response googleadsdomain.SearchResponse
		if err := decodeObject(body, &response); err != nil {
			return nil, err
		}

		rows = append(rows, response.Results...)

		if response.NextPageToken == "" {
			return rows, nil
		}
		request.PageToken = response.NextPageToken
	}
}
