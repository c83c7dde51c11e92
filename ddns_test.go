package zeddns_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"
	"time"

	"zeddns"
)

func TestNewRequiresProvider(t *testing.T) {
	if _, err := zeddns.New(); err == nil {
		t.Fatal("Expected an error when no provider is registered; got err == nil")
	}
}

func TestFromString(t *testing.T) {
	r, err := zeddns.FromString(" 203.0.113.10\n")
	if err != nil {
		t.Fatalf("FromString failed: %s", err)
	}
	ip, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve failed: %s", err)
	}
	if expected := netip.MustParseAddr("203.0.113.10"); ip != expected {
		t.Fatalf("Expected %q; got %q", expected, ip)
	}

	if _, err := zeddns.FromString("not an ip"); err == nil {
		t.Fatal("Expected an error for an unparseable address; got err == nil")
	}
}

func TestClientWiresResolverAndProvider(t *testing.T) {
	echo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "198.51.100.7\n")
	}))
	defer echo.Close()
	update := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "GOOD "+r.URL.Query().Get("myip"))
	}))
	defer update.Close()

	ze := zeddns.NewZoneEdit("u", "t")
	ze.URL = update.URL
	client, err := zeddns.New(
		zeddns.UsingProvider(ze),
		zeddns.UsingWebResolver(echo.URL),
		zeddns.WithTimeout(5*time.Second),
	)
	if err != nil {
		t.Fatalf("New failed: %s", err)
	}

	ip, err := client.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve failed: %s", err)
	}
	if expected := netip.MustParseAddr("198.51.100.7"); ip != expected {
		t.Fatalf("Expected %q; got %q", expected, ip)
	}

	res := client.Update(context.Background(), "home.example.com", ip)
	if !res.Success {
		t.Fatalf("Expected successful update; got %+v", res)
	}
	if res.Body != "GOOD 198.51.100.7" {
		t.Fatalf("Body = %q", res.Body)
	}
}

func TestProviderFunc(t *testing.T) {
	var gotHost string
	p := zeddns.ProviderFunc(func(ctx context.Context, host string, ip netip.Addr) zeddns.Result {
		gotHost = host
		return zeddns.Result{Host: host, Success: true, StatusCode: 200, Body: "ok"}
	})
	client, err := zeddns.New(zeddns.UsingProvider(p))
	if err != nil {
		t.Fatalf("New failed: %s", err)
	}
	res := client.Update(context.Background(), "x.example.com", netip.MustParseAddr("192.0.2.1"))
	if !res.Success || gotHost != "x.example.com" {
		t.Fatalf("unexpected result %+v (host %q)", res, gotHost)
	}
}
