package messenger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type sendTextRequest struct {
	ChatID string `json:"chatId"`
	Text   string `json:"text"`
}

// GatewayMessenger entrega mensagens por um gateway HTTP de WhatsApp
type GatewayMessenger struct {
	url        string
	token      string
	httpClient *http.Client
}

func NewGatewayMessenger(url, token string, httpClient *http.Client) *GatewayMessenger {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &GatewayMessenger{
		url:        url,
		token:      token,
		httpClient: httpClient,
	}
}

func (m *GatewayMessenger) SendText(ctx context.Context, to, text string) error {
	payload, err := json.Marshal(sendTextRequest{ChatID: to, Text: text})
	if err != nil {
		return errors.Wrap(err, "erro ao serializar mensagem")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, "erro ao criar requisição para o gateway")
	}

	req.Header.Set("Content-Type", "application/json")
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "erro ao chamar o gateway")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("gateway respondeu %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	// Corpo ignorado: o envio é fire-and-forget
	io.Copy(io.Discard, resp.Body)
	return nil
}
