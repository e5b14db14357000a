package messenger

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ads-report-dispatcher/internal/config"
)

func TestGatewayMessenger_SendText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer segredo", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		var payload sendTextRequest
		assert.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "5511999@c.us", payload.ChatID)
		assert.Equal(t, "olá", payload.Text)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"msg-1"}`))
	}))
	defer server.Close()

	m := NewGatewayMessenger(server.URL+"/api/sendText", "segredo", server.Client())
	require.NoError(t, m.SendText(context.Background(), "5511999@c.us", "olá"))
}

func TestGatewayMessenger_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("sessão desconectada"))
	}))
	defer server.Close()

	m := NewGatewayMessenger(server.URL, "", server.Client())
	err := m.SendText(context.Background(), "5511999@c.us", "olá")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "sessão desconectada")
}

type countingMessenger struct {
	calls int
}

func (c *countingMessenger) SendText(context.Context, string, string) error {
	c.calls++
	return nil
}

func TestRateLimited(t *testing.T) {
	next := &countingMessenger{}
	assert.Same(t, Messenger(next), NewRateLimited(next, 0, 0), "taxa zero não deve envolver o messenger")

	limited := NewRateLimited(next, 1, 1)
	require.NoError(t, limited.SendText(context.Background(), "a", "x"))

	// Sem token disponível e com prazo curto, a espera falha sem chamar o canal
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, limited.SendText(ctx, "b", "x"))
	assert.Equal(t, 1, next.calls)
}

func TestToJID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "5511999999999@c.us", want: "5511999999999@s.whatsapp.net"},
		{in: "5511999999999", want: "5511999999999@s.whatsapp.net"},
		{in: "120363000000000000@g.us", want: "120363000000000000@g.us"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			jid, err := ToJID(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, jid.String())
		})
	}
}

func TestNewFromConfigUnknownDriver(t *testing.T) {
	_, _, err := NewFromConfig(context.Background(), config.Delivery{Driver: "sms"}, nil)
	assert.Error(t, err)
}

func TestNewFromConfigGateway(t *testing.T) {
	m, closeFn, err := NewFromConfig(context.Background(), config.Delivery{
		Driver:        config.DeliveryDriverGateway,
		GatewayURL:    "http://localhost:3000/api/sendText",
		RatePerSecond: 2,
		Burst:         1,
	}, nil)

	require.NoError(t, err)
	closeFn()
	assert.IsType(t, &RateLimitedMessenger{}, m)
}
