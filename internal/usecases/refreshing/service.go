package refreshing

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/repository"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
	"golang.org/x/sync/singleflight"
)

// TokenRefresher troca um refresh token por um novo pacote de tokens na plataforma
type TokenRefresher interface {
	Platform() domain.Platform
	RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenBundle, error)
}

// PlatformCall é a chamada protegida. Recebe a credencial com o access token vigente.
type PlatformCall func(ctx context.Context, credential *domain.Credential) error

// Guard executa chamadas às plataformas garantindo um token válido
type Guard interface {
	WithValidToken(ctx context.Context, tenantID string, call PlatformCall) error
}

type Service struct {
	credentials repository.CredentialRepository
	refreshers  map[domain.Platform]TokenRefresher
	timeout     time.Duration
	group       singleflight.Group
}

func NewService(credentials repository.CredentialRepository, timeout time.Duration, refreshers ...TokenRefresher) *Service {
	byPlatform := make(map[domain.Platform]TokenRefresher, len(refreshers))
	for _, r := range refreshers {
		byPlatform[r.Platform()] = r
	}

	return &Service{
		credentials: credentials,
		refreshers:  byPlatform,
		timeout:     timeout,
	}
}

// WithValidToken executa a chamada e, diante de um AuthError, faz exatamente uma
// troca de token, persiste o novo pacote e repete a chamada uma única vez.
func (s *Service) WithValidToken(ctx context.Context, tenantID string, call PlatformCall) error {
	credential, err := s.credentials.Get(ctx, tenantID)
	if err != nil {
		return err
	}

	err = call(ctx, credential)
	if err == nil || !domain.IsAuthError(err) {
		return err
	}

	logger := logrus.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"platform":  credential.Platform,
	})

	if !credential.HasRefreshToken() {
		logger.Warn("Token rejeitado e tenant sem refresh token")
		return domain.NewAuthError(err, "tenant sem refresh token")
	}

	refreshed, refreshErr := s.refresh(ctx, credential)
	if refreshErr != nil {
		logger.WithField("error", refreshErr.Error()).Warn("Falha ao renovar token")
		return refreshErr
	}

	logger.Info("Token renovado, repetindo chamada")

	if err := call(ctx, refreshed); err != nil {
		if domain.IsAuthError(err) {
			return domain.NewAuthError(err, "token recusado mesmo após renovação")
		}
		return err
	}

	return nil
}

// refresh agrupa renovações concorrentes do mesmo tenant em uma única troca.
// Se outra chamada já gravou um token diferente do rejeitado, ele é reaproveitado.
func (s *Service) refresh(ctx context.Context, stale *domain.Credential) (*domain.Credential, error) {
	v, err, shared := s.group.Do(stale.TenantID, func() (any, error) {
		current, err := s.credentials.Get(ctx, stale.TenantID)
		if err != nil {
			return nil, err
		}
		if current.AccessToken != stale.AccessToken {
			return current, nil
		}

		refresher, ok := s.refreshers[current.Platform]
		if !ok {
			return nil, domain.NewAuthError(nil, "renovação não suportada para a plataforma "+string(current.Platform))
		}

		refreshCtx := ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			refreshCtx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}

		bundle, err := refresher.RefreshToken(refreshCtx, current.RefreshToken)
		if err != nil {
			if domain.IsAuthError(err) {
				return nil, err
			}
			return nil, domain.NewAuthError(err, "falha na renovação do token")
		}
		if bundle == nil || bundle.AccessToken == "" {
			return nil, domain.NewAuthError(nil, "renovação devolveu token vazio")
		}

		current.ApplyTokens(bundle)
		if err := s.credentials.Put(ctx, current); err != nil {
			if domain.IsStoreError(err) {
				return nil, err
			}
			return nil, domain.NewStoreError(err, "erro ao gravar token renovado")
		}

		return current, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		logrus.WithField("tenant_id", stale.TenantID).Debug("Renovação de token compartilhada")
	}

	copied := *v.(*domain.Credential)
	return &copied, nil
}
