package metaclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	metadomain "github.com/vfg2006/ads-report-dispatcher/infrastructure/integrator/meta/domain"
	"github.com/vfg2006/ads-report-dispatcher/internal/config"
	"github.com/vfg2006/ads-report-dispatcher/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Limite de páginas seguidas em uma listagem
const maxPages = 50

type Client interface {
	GetActiveCampaignsByAccountID(ctx context.Context, accountID, accessToken string) ([]metadomain.Campaign, error)
	GetAdAccounts(ctx context.Context, accessToken string) ([]metadomain.AdAccount, error)
	ExchangeToken(ctx context.Context, token string) (*TokenResponse, error)
}

type MetaClient struct {
	cfg        config.Meta
	httpClient *http.Client
}

func NewClient(cfg config.Meta, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &MetaClient{
		cfg:        cfg,
		httpClient: httpClient,
	}
}

// get executa a requisição e devolve o corpo das respostas bem-sucedidas.
// Erros de transporte e respostas de erro viram erros de domínio.
func (c *MetaClient) get(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, domain.NewPlatformError(errors.Wrap(err, "erro ao criar a requisição"), "meta")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewPlatformError(errors.Wrap(err, "erro ao fazer a requisição"), "meta")
	}
	defer resp.Body.Close()

	return HandleResponse(resp)
}

// HandleResponse lê a resposta e classifica os erros da Graph API
func HandleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NewPlatformError(errors.Wrap(err, "erro ao ler resposta"), "meta")
	}

	errorResp, parseErr := ParseErrorResponse(body)
	if parseErr == nil && errorResp.Error != nil {
		return nil, classifyError(resp.StatusCode, errorResp.Error)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized || containsTokenExpirationMessage(string(body)) {
			return nil, domain.NewAuthError(nil, "meta: "+resp.Status)
		}
		return nil, domain.NewPlatformError(errors.Errorf("status %d", resp.StatusCode), "meta: resposta inesperada")
	}

	return body, nil
}

// ParseErrorResponse tenta parsear um erro da API do Meta
func ParseErrorResponse(body []byte) (*metadomain.ErrorResponse, error) {
	var errorResp metadomain.ErrorResponse
	if err := json.Unmarshal(body, &errorResp); err != nil {
		return nil, err
	}
	return &errorResp, nil
}

func classifyError(status int, details *metadomain.ErrorDetails) error {
	cause := errors.Errorf("status %d, código %d, subcódigo %d: %s", status, details.Code, details.ErrorSubcode, details.Message)

	switch {
	case details.IsTokenExpired():
		return domain.NewAuthError(cause, "meta: token expirado ou inválido")
	case details.IsPermissionDenied():
		return domain.NewPermissionError(cause, "meta: permissão negada")
	default:
		return domain.NewPlatformError(cause, "meta")
	}
}

// containsTokenExpirationMessage verifica se a mensagem contém indicação de token expirado
func containsTokenExpirationMessage(message string) bool {
	return strings.Contains(message, "Error validating access token") ||
		strings.Contains(message, "Session has expired") ||
		strings.Contains(message, "The session has been invalidated")
}

// pageLimitError evita devolver uma lista truncada como se estivesse completa
func pageLimitError(resource string) error {
	return domain.NewPlatformError(nil, fmt.Sprintf("meta: %s excederam o limite de %d páginas", resource, maxPages))
}

// nextPage só segue links para o mesmo host configurado
func (c *MetaClient) nextPage(paging *metadomain.Paging) string {
	if paging == nil || paging.Next == "" {
		return ""
	}

	next, err := url.Parse(paging.Next)
	if err != nil {
		return ""
	}
	base, err := url.Parse(c.cfg.URL)
	if err != nil || next.Host != base.Host {
		return ""
	}

	return paging.Next
}
