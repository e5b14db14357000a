package messenger

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// RateLimitedMessenger limita a taxa de envio para não disparar bloqueios do canal
type RateLimitedMessenger struct {
	next    Messenger
	limiter *rate.Limiter
}

// NewRateLimited envolve o messenger com um limitador. Taxa <= 0 desativa o limite.
func NewRateLimited(next Messenger, perSecond float64, burst int) Messenger {
	if perSecond <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}

	return &RateLimitedMessenger{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (m *RateLimitedMessenger) SendText(ctx context.Context, to, text string) error {
	if err := m.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, "limite de envio não liberado a tempo")
	}
	return m.next.SendText(ctx, to, text)
}
