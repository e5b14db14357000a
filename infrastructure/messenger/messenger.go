package messenger

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vfg2006/ads-report-dispatcher/internal/config"
)

// Messenger envia uma mensagem de texto a um destinatário ("5511999@c.us", "...@g.us")
type Messenger interface {
	SendText(ctx context.Context, to, text string) error
}

// NewFromConfig cria o canal de entrega configurado, já limitado por taxa.
// A função devolvida encerra conexões abertas pelo canal.
func NewFromConfig(ctx context.Context, cfg config.Delivery, httpClient *http.Client) (Messenger, func(), error) {
	var base Messenger
	closeFn := func() {}

	switch cfg.Driver {
	case config.DeliveryDriverGateway:
		base = NewGatewayMessenger(cfg.GatewayURL, cfg.GatewayToken, httpClient)
	case config.DeliveryDriverWhatsmeow:
		wa, err := NewWhatsmeowMessenger(ctx, cfg.WhatsmeowDBPath)
		if err != nil {
			return nil, nil, err
		}
		if err := wa.Connect(ctx); err != nil {
			return nil, nil, err
		}
		base = wa
		closeFn = wa.Close
	default:
		return nil, nil, fmt.Errorf("driver de entrega desconhecido: %q", cfg.Driver)
	}

	return NewRateLimited(base, cfg.RatePerSecond, cfg.Burst), closeFn, nil
}
