package adsclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/vfg2006/ads-report-dispatcher/internal/config"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
	"golang.org/x/oauth2"
)

// TokenRefresher troca o refresh token do Google por um novo access token
type TokenRefresher struct {
	oauthConfig *oauth2.Config
	httpClient  *http.Client
}

func NewTokenRefresher(cfg config.GoogleAds, httpClient *http.Client) *TokenRefresher {
	return &TokenRefresher{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		httpClient: httpClient,
	}
}

func (r *TokenRefresher) Refresh(ctx context.Context, refreshToken string) (*domain.TokenBundle, error) {
	if refreshToken == "" {
		return nil, domain.NewAuthError(nil, "google_ads: refresh token ausente")
	}

	if r.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, r.httpClient)
	}

	token, err := r.oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, domain.NewAuthError(err, "google_ads: refresh recusado ("+retrieveErr.ErrorCode+")")
		}
		return nil, domain.NewAuthError(err, "google_ads: falha no refresh do token")
	}

	bundle := &domain.TokenBundle{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		bundle.Expiry = &expiry
	}

	return bundle, nil
}
