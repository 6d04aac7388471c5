package probe

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cached is a [Prober] that reuses values observed by an inner [Prober]
// until they expire. Errors are not cached.
type Cached struct {
	prober Prober
	cache  *cache.Cache
}

// NewCached wraps p, caching each observed value for ttl. A ttl that is not
// positive disables caching; every call reaches p.
func NewCached(p Prober, ttl time.Duration) *Cached {
	c := &Cached{prober: p}
	if ttl > 0 {
		c.cache = cache.New(ttl, 2*ttl)
	}

	return c
}

// ExternalIP implements [Prober].
func (c *Cached) ExternalIP(ctx context.Context) (string, error) {
	return c.get(ctx, SignalExternalIP, c.prober.ExternalIP)
}

// GatewayIP implements [Prober].
func (c *Cached) GatewayIP(ctx context.Context) (string, error) {
	return c.get(ctx, SignalGatewayIP, c.prober.GatewayIP)
}

// GatewayMAC implements [Prober].
func (c *Cached) GatewayMAC(ctx context.Context) (string, error) {
	return c.get(ctx, SignalGatewayMAC, c.prober.GatewayMAC)
}

// Flush discards every cached value.
func (c *Cached) Flush() {
	if c.cache != nil {
		c.cache.Flush()
	}
}

func (c *Cached) get(ctx context.Context, signal string, fn func(context.Context) (string, error)) (string, error) {
	if c.cache == nil {
		return fn(ctx)
	}

	if v, ok := c.cache.Get(signal); ok {
		slog.DebugContext(ctx, "using cached value", slog.String("signal", signal))

		s, _ := v.(string)

		return s, nil
	}

	v, err := fn(ctx)
	if err != nil {
		return "", err
	}

	c.cache.SetDefault(signal, v)

	return v, nil
}
