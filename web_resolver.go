package zeddns

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultIPServices are the fallback IP-echo services used to detect the
// caller's public IPv4 address.
var DefaultIPServices = []string{
	"https://api.ipify.org",
	"https://ipv4.icanhazip.com",
	"https://ifconfig.me/ip",
}

// ErrNoIP is reported when every IP-echo service failed to produce an address.
var ErrNoIP = errors.New("no IP detected")

// WebResolver constructs a resolver which uses external web services to look up a "public" IP address.
//
// Each serviceURL must speak http and return a 2xx status,
// with a valid IPv4 address as the first line of the response body.
//
// Services are tried in the given order and the first usable answer wins.
// A transport error, non-2xx status, or garbage body on one service is
// swallowed and the next service is tried; Resolve returns ErrNoIP only
// when every service has failed. Each service is contacted at most once
// per call.
func WebResolver(serviceURL ...string) Resolver {
	return &webResolver{serviceURLs: serviceURL, logger: zerolog.Nop()}
}

type webResolver struct {
	httpClient  *http.Client
	serviceURLs []string
	logger      zerolog.Logger
}

func (wr *webResolver) SetHTTPClient(httpclient *http.Client) {
	wr.httpClient = httpclient
}

func (wr *webResolver) SetLogger(logger zerolog.Logger) {
	wr.logger = logger
}

// Resolve implements zeddns.Resolver.
func (wr *webResolver) Resolve(ctx context.Context) (netip.Addr, error) {
	if len(wr.serviceURLs) == 0 {
		return netip.Addr{}, errors.New("no external IP lookup services were provided")
	}

	for _, u := range wr.serviceURLs {
		ip, err := wr.lookup(ctx, u)
		if err != nil {
			wr.logger.Debug().Str("service", u).Err(err).Msg("IP lookup failed, trying next service")
			continue
		}
		wr.logger.Debug().Str("service", u).Stringer("ip", ip).Msg("detected public IP")
		return ip, nil
	}
	return netip.Addr{}, ErrNoIP
}

func (wr *webResolver) lookup(ctx context.Context, serviceURL string) (netip.Addr, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serviceURL, nil)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	httpclient := wr.httpClient
	if httpclient == nil {
		httpclient = http.DefaultClient
	}

	resp, err := httpclient.Do(req)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return netip.Addr{}, fmt.Errorf("http request returned %s", resp.Status)
	}

	scanner := bufio.NewReader(resp.Body)
	ipstring, _ := scanner.ReadString('\n')
	ip, err := netip.ParseAddr(strings.TrimSpace(ipstring))
	if err != nil {
		return netip.Addr{}, fmt.Errorf("error parsing IP address from response body: %w", err)
	}
	return ip, nil
}
