package metaclient

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pkg/errors"
	metadomain "github.com/vfg2006/ads-report-dispatcher/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
)

// GetAdAccounts lista as contas de anúncios acessíveis pelo token
func (c *MetaClient) GetAdAccounts(ctx context.Context, accessToken string) ([]metadomain.AdAccount, error) {
	params := url.Values{}
	params.Add("fields", "id,account_id,name,account_status")
	params.Add("limit", "100")
	params.Add("access_token", accessToken)

	requestURL := fmt.Sprintf("%s/me/adaccounts?%s", c.cfg.URL, params.Encode())

	accounts := make([]metadomain.AdAccount, 0)
	for page := 0; requestURL != "" && page < maxPages; page++ {
		body, err := c.get(ctx, requestURL)
		if err != nil {
			return nil, err
		}

		var response metadomain.ResponseAdAccounts
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, domain.NewPlatformError(errors.Wrap(err, "erro ao decodificar contas"), "meta")
		}

		if response.Data == nil {
			return nil, domain.NewPlatformError(nil, "meta: resposta de contas sem o campo data")
		}

		accounts = append(accounts, response.Data...)
		requestURL = c.nextPage(response.Paging)
	}

	if requestURL != "" {
		return nil, pageLimitError("contas")
	}

	return accounts, nil
}
