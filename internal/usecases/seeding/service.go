package seeding

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/repository"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
	"github.com/vfg2006/ads-report-dispatcher/pkg/log"
	"github.com/vfg2006/ads-report-dispatcher/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Fixture é o arquivo de carga inicial de tenants e relatórios
type Fixture struct {
	Credentials []CredentialSeed `json:"credentials"`
	Reports     []ReportSeed     `json:"reports"`
}

type CredentialSeed struct {
	TenantID          string          `json:"tenant_id"`
	Platform          domain.Platform `json:"platform"`
	AccessToken       string          `json:"access_token"`
	RefreshToken      string          `json:"refresh_token"`
	Expiry            *time.Time      `json:"expiry"`
	SelectedAccountID string          `json:"selected_account_id"`
}

type ReportSeed struct {
	ID         string   `json:"id"`
	TenantID   string   `json:"tenant_id"`
	Weekday    string   `json:"weekday"`
	TimeOfDay  string   `json:"time_of_day"`
	Recipients []string `json:"recipients"`
	Active     *bool    `json:"active"`
}

// Summary conta o que foi gravado e o que foi rejeitado
type Summary struct {
	Credentials int
	Reports     int
	Rejected    []string
}

func Load(r io.Reader) (*Fixture, error) {
	var fixture Fixture
	if err := json.NewDecoder(r).Decode(&fixture); err != nil {
		return nil, fmt.Errorf("arquivo de carga inválido: %w", err)
	}
	return &fixture, nil
}

type Service struct {
	credentials repository.CredentialRepository
	reports     repository.ReportRepository
}

func NewService(credentials repository.CredentialRepository, reports repository.ReportRepository) *Service {
	return &Service{
		credentials: credentials,
		reports:     reports,
	}
}

// Apply grava a carga. Entradas inválidas são rejeitadas e registradas,
// erros do banco interrompem a carga.
func (s *Service) Apply(ctx context.Context, fixture *Fixture) (*Summary, error) {
	logger := log.ForContext(ctx)
	summary := &Summary{}

	for i, seed := range fixture.Credentials {
		credential, err := seed.toCredential()
		if err != nil {
			summary.Rejected = append(summary.Rejected, fmt.Sprintf("credencial %d: %v", i+1, err))
			continue
		}

		if err := s.credentials.Put(ctx, credential); err != nil {
			return summary, err
		}
		summary.Credentials++
	}

	for i, seed := range fixture.Reports {
		report, err := seed.toReport()
		if err != nil {
			summary.Rejected = append(summary.Rejected, fmt.Sprintf("relatório %d: %v", i+1, err))
			continue
		}

		if err := s.reports.Save(ctx, report); err != nil {
			return summary, err
		}
		summary.Reports++
	}

	logger.WithFields(log.Fields{
		"credentials": summary.Credentials,
		"reports":     summary.Reports,
		"rejected":    len(summary.Rejected),
	}).Info("Carga inicial concluída")

	return summary, nil
}

func (c CredentialSeed) toCredential() (*domain.Credential, error) {
	if strings.TrimSpace(c.TenantID) == "" {
		return nil, fmt.Errorf("tenant_id obrigatório")
	}
	if !c.Platform.IsValid() {
		return nil, fmt.Errorf("plataforma desconhecida: %q", c.Platform)
	}
	if strings.TrimSpace(c.AccessToken) == "" {
		return nil, fmt.Errorf("access_token obrigatório para %s", c.TenantID)
	}

	return &domain.Credential{
		TenantID:          c.TenantID,
		Platform:          c.Platform,
		AccessToken:       c.AccessToken,
		RefreshToken:      c.RefreshToken,
		Expiry:            c.Expiry,
		SelectedAccountID: strings.TrimSpace(c.SelectedAccountID),
	}, nil
}

func (r ReportSeed) toReport() (*domain.ReportDefinition, error) {
	if strings.TrimSpace(r.TenantID) == "" {
		return nil, fmt.Errorf("tenant_id obrigatório")
	}

	weekday, ok := domain.NormalizeWeekday(r.Weekday)
	if !ok {
		return nil, fmt.Errorf("dia da semana inválido: %q", r.Weekday)
	}

	timeOfDay, ok := domain.NormalizeTimeOfDay(r.TimeOfDay)
	if !ok {
		return nil, fmt.Errorf("horário inválido: %q", r.TimeOfDay)
	}

	id := r.ID
	if id == "" {
		generated, err := utils.GenerateID()
		if err != nil {
			return nil, err
		}
		id = generated
	}

	active := true
	if r.Active != nil {
		active = *r.Active
	}

	return &domain.ReportDefinition{
		ID:         id,
		TenantID:   r.TenantID,
		Weekday:    weekday,
		TimeOfDay:  timeOfDay,
		Recipients: strings.Join(r.Recipients, ","),
		Active:     active,
	}, nil
}
