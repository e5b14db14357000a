package metaclient

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
)

// TokenResponse representa a resposta da API do Meta ao trocar um token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// ExchangeToken troca o token atual por um novo token de longa duração (fb_exchange_token).
// Qualquer falha é tratada como falha de autenticação.
func (c *MetaClient) ExchangeToken(ctx context.Context, token string) (*TokenResponse, error) {
	if token == "" {
		return nil, domain.NewAuthError(nil, "meta: token para troca não pode ser vazio")
	}

	params := url.Values{}
	params.Add("grant_type", "fb_exchange_token")
	params.Add("client_id", c.cfg.AppID)
	params.Add("client_secret", c.cfg.AppSecret)
	params.Add("fb_exchange_token", token)

	body, err := c.get(ctx, fmt.Sprintf("%s/oauth/access_token?%s", c.cfg.URL, params.Encode()))
	if err != nil {
		if domain.IsAuthError(err) {
			return nil, err
		}
		return nil, domain.NewAuthError(err, "meta: falha na troca de token")
	}

	var tokenResp TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return nil, domain.NewAuthError(errors.Wrap(err, "erro ao decodificar resposta"), "meta")
	}

	if tokenResp.AccessToken == "" {
		return nil, domain.NewAuthError(nil, "meta: token retornado pela API é vazio")
	}

	if tokenResp.ExpiresIn > 0 {
		logrus.Infof("Token de longa duração obtido com sucesso. Expira em %s.", FormatDuration(tokenResp.ExpiresIn))
	}

	return &tokenResp, nil
}

// FormatDuration formata a duração em segundos para um formato legível
func FormatDuration(seconds int64) string {
	duration := time.Duration(seconds) * time.Second
	days := duration / (24 * time.Hour)
	hours := (duration % (24 * time.Hour)) / time.Hour
	minutes := (duration % time.Hour) / time.Minute

	return fmt.Sprintf("%d dias, %d horas e %d minutos", days, hours, minutes)
}

// CalculateTokenExpiration devolve nil quando a API não informa a validade
func CalculateTokenExpiration(now time.Time, expiresIn int64) *time.Time {
	if expiresIn <= 0 {
		return nil
	}

	expiry := now.Add(time.Duration(expiresIn) * time.Second)
	return &expiry
}
