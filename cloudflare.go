package zeddns

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"
	"strings"

	"github.com/cloudflare/cloudflare-go"
	"github.com/rs/zerolog"
)

// NewCloudflare builds a provider that manages the host's A record directly
// through the Cloudflare API instead of a dyndns-style update URL.
func NewCloudflare(token string) (*Cloudflare, error) {
	api, err := cloudflare.NewWithAPIToken(token)
	if err != nil {
		return nil, fmt.Errorf("error creating cloudflare api client: %w", err)
	}
	return &Cloudflare{
		api:     api,
		logger:  zerolog.Nop(),
		comment: "managed by zeddns",
	}, nil
}

// Cloudflare implements zeddns.Provider.
//
// It should be constructed with NewCloudflare.
type Cloudflare struct {
	api     *cloudflare.API
	logger  zerolog.Logger
	comment string // attached to each record this provider creates
}

func (cf *Cloudflare) SetHTTPClient(httpclient *http.Client) {
	cloudflare.HTTPClient(httpclient)(cf.api)
}

func (cf *Cloudflare) SetLogger(logger zerolog.Logger) {
	cf.logger = logger
}

// Update implements zeddns.Provider. API errors become a failed Result with
// StatusCode 0 so the caller can treat Cloudflare and ZoneEdit uniformly.
func (cf *Cloudflare) Update(ctx context.Context, host string, ip netip.Addr) Result {
	res := Result{Host: host}
	changed, err := cf.setRecord(ctx, host, ip)
	if err != nil {
		res.Body = fmt.Sprintf("cloudflare_error: %s", err)
		return res
	}
	res.Success = true
	res.StatusCode = http.StatusOK
	if changed {
		res.Body = "updated"
	} else {
		res.Body = "nochg"
	}
	return res
}

func (cf *Cloudflare) setRecord(ctx context.Context, host string, ip netip.Addr) (changed bool, err error) {
	zid, err := cf.zoneIDForHost(ctx, host)
	if err != nil {
		return false, fmt.Errorf("unable to get zone ID for %s: %w", host, err)
	}
	cf.logger.Debug().Str("zone", zid).Str("host", host).Msg("looking up A records")

	records, _, err := cf.api.ListDNSRecords(ctx, cloudflare.ZoneIdentifier(zid), cloudflare.ListDNSRecordsParams{
		Type: "A",
		Name: host,
	})
	if err != nil {
		return false, fmt.Errorf("error listing DNS records: %w", err)
	}

	current := false
	for _, r := range records {
		if r.Content == ip.String() {
			cf.logger.Debug().Str("record", r.ID).Msg("record already current")
			current = true
			continue
		}
		cf.logger.Debug().Str("record", r.ID).Str("content", r.Content).Msg("deleting stale record")
		if err := cf.api.DeleteDNSRecord(ctx, cloudflare.ZoneIdentifier(zid), r.ID); err != nil {
			return false, fmt.Errorf("unable to delete DNS record %s: %w", r.ID, err)
		}
		changed = true
	}
	if current {
		return changed, nil
	}

	record, err := cf.api.CreateDNSRecord(ctx, cloudflare.ZoneIdentifier(zid), cloudflare.CreateDNSRecordParams{
		Type:    "A",
		Name:    host,
		Content: ip.String(),
		ZoneID:  zid,
		TTL:     60,
		Comment: cf.comment,
	})
	if err != nil {
		return false, fmt.Errorf("error creating DNS record: %w", err)
	}
	cf.logger.Debug().Str("record", record.ID).Stringer("ip", ip).Msg("created record")
	return true, nil
}

func (cf *Cloudflare) zoneIDForHost(ctx context.Context, host string) (zid string, err error) {
	zones, err := cf.api.ListZones(ctx)
	if err != nil {
		return "", fmt.Errorf("error listing zones: %w", err)
	}

	max := 0
	for _, z := range zones {
		if strings.HasSuffix(host, z.Name) && len(z.Name) > max {
			max, zid = len(z.Name), z.ID
		}
	}
	if max == 0 {
		return "", fmt.Errorf("unable to find a zone matching %q", host)
	}
	return zid, nil
}
