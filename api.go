package zeddns

import (
	"context"
	"net/netip"
)

// Resolver determines the public IPv4 address to publish.
type Resolver interface {
	Resolve(context.Context) (netip.Addr, error)
}

// Provider pushes one host's record to a DDNS service.
//
// Update never returns an error: transport failures are reported as a
// Result with StatusCode 0 so the caller decides how to surface them.
type Provider interface {
	Update(ctx context.Context, host string, ip netip.Addr) Result
}

// Result records the outcome of a single host update.
type Result struct {
	Host       string
	Success    bool
	StatusCode int // 0 when the request never completed
	Body       string
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(context.Context) (netip.Addr, error)

func (f ResolverFunc) Resolve(ctx context.Context) (netip.Addr, error) {
	return f(ctx)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, host string, ip netip.Addr) Result

func (f ProviderFunc) Update(ctx context.Context, host string, ip netip.Addr) Result {
	return f(ctx, host, ip)
}
