package metaclient

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	metadomain "github.com/vfg2006/ads-report-dispatcher/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
)

const campaignFields = "id,name,status,objective,insights{impressions,clicks,conversions,cost_per_conversion,spend}"

// AccountPath garante o prefixo act_ exigido pela Graph API
func AccountPath(accountID string) string {
	accountID = strings.TrimSpace(accountID)
	if strings.HasPrefix(accountID, "act_") {
		return accountID
	}
	return "act_" + accountID
}

// GetActiveCampaignsByAccountID busca as campanhas ativas com os insights expandidos,
// seguindo a paginação até o fim
func (c *MetaClient) GetActiveCampaignsByAccountID(ctx context.Context, accountID, accessToken string) ([]metadomain.Campaign, error) {
	params := url.Values{}
	params.Add("fields", campaignFields)
	params.Add("effective_status", `["ACTIVE"]`)
	params.Add("limit", "100")
	params.Add("access_token", accessToken)

	requestURL := fmt.Sprintf("%s/%s/campaigns?%s", c.cfg.URL, AccountPath(accountID), params.Encode())

	campaigns := make([]metadomain.Campaign, 0)
	for page := 0; requestURL != "" && page < maxPages; page++ {
		body, err := c.get(ctx, requestURL)
		if err != nil {
			return nil, err
		}

		var response metadomain.ResponseAdCampaign
		if err := json.Unmarshal(body, &response); err != nil {
			logrus.WithError(err).Error("Erro ao decodificar JSON de campanhas")
			return nil, domain.NewPlatformError(errors.Wrap(err, "erro ao decodificar campanhas"), "meta")
		}

		if response.Data == nil {
			return nil, domain.NewPlatformError(nil, "meta: resposta de campanhas sem o campo data")
		}

		campaigns = append(campaigns, response.Data...)
		requestURL = c.nextPage(response.Paging)
	}

	if requestURL != "" {
		return nil, pageLimitError("campanhas")
	}

	return campaigns, nil
}
