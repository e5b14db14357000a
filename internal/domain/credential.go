package domain

import (
	"strings"
	"time"
)

type Platform string

const (
	PlatformMeta      Platform = "meta"
	PlatformGoogleAds Platform = "google_ads"
)

func (p Platform) IsValid() bool {
	return p == PlatformMeta || p == PlatformGoogleAds
}

// Credential é o pacote de tokens OAuth de um tenant com a conta selecionada.
// Existe no máximo uma conta selecionada por tenant.
type Credential struct {
	TenantID          string     `json:"tenant_id"`
	Platform          Platform   `json:"platform"`
	AccessToken       string     `json:"-"`
	RefreshToken      string     `json:"-"`
	Expiry            *time.Time `json:"expiry,omitempty"`
	SelectedAccountID string     `json:"selected_account_id,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TokenBundle é o resultado de uma troca de token
type TokenBundle struct {
	AccessToken  string
	RefreshToken string
	Expiry       *time.Time
}

func (c *Credential) HasRefreshToken() bool {
	return strings.TrimSpace(c.RefreshToken) != ""
}

// ApplyTokens grava o novo pacote na credencial. O refresh token atual é mantido
// quando a plataforma não devolve um novo.
func (c *Credential) ApplyTokens(bundle *TokenBundle) {
	c.AccessToken = bundle.AccessToken
	if bundle.RefreshToken != "" {
		c.RefreshToken = bundle.RefreshToken
	}
	c.Expiry = bundle.Expiry
}

// ValidateForDispatch verifica os campos necessários para buscar métricas
func (c *Credential) ValidateForDispatch() error {
	if !c.Platform.IsValid() {
		return NewConfigError(nil, "plataforma desconhecida: "+string(c.Platform))
	}
	if strings.TrimSpace(c.AccessToken) == "" {
		return NewConfigError(nil, "credencial sem access token")
	}
	if strings.TrimSpace(c.SelectedAccountID) == "" {
		return NewConfigError(nil, "nenhuma conta de anúncios selecionada")
	}
	return nil
}
