package zeddns

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultUpdateURL is ZoneEdit's dyn update endpoint.
const DefaultUpdateURL = "https://api.cp.zoneedit.com/dyn/generic.php"

// successMarkers are the substrings ZoneEdit includes in accepted responses.
// The endpoint may report errors with a 200 status, so the body is checked too.
var successMarkers = []string{"ok", "good", "nochg", "updated", "success"}

// NewZoneEdit builds a ZoneEdit provider authenticating with the given
// username and dynamic DNS token (not the account password).
func NewZoneEdit(user, token string) *ZoneEdit {
	return &ZoneEdit{
		URL:    DefaultUpdateURL,
		user:   user,
		token:  token,
		logger: zerolog.Nop(),
	}
}

// ZoneEdit implements zeddns.Provider against ZoneEdit's dyn update endpoint.
//
// It should be constructed with NewZoneEdit.
type ZoneEdit struct {
	// URL is the update endpoint. It defaults to DefaultUpdateURL.
	URL string

	user       string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

func (z *ZoneEdit) SetHTTPClient(httpclient *http.Client) {
	z.httpClient = httpclient
}

func (z *ZoneEdit) SetLogger(logger zerolog.Logger) {
	z.logger = logger
}

// Update implements zeddns.Provider.
// It makes exactly one GET request with the hostname and IP as query
// parameters and basic auth credentials. A transport failure becomes a
// Result with StatusCode 0 and an error-description body.
func (z *ZoneEdit) Update(ctx context.Context, host string, ip netip.Addr) Result {
	res := Result{Host: host}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, z.URL, nil)
	if err != nil {
		res.Body = fmt.Sprintf("request_error: %s", err)
		return res
	}
	q := req.URL.Query()
	q.Set("hostname", host)
	q.Set("myip", ip.String())
	req.URL.RawQuery = q.Encode()
	req.SetBasicAuth(z.user, z.token)

	httpclient := z.httpClient
	if httpclient == nil {
		httpclient = http.DefaultClient
	}

	z.logger.Debug().Str("host", host).Stringer("ip", ip).Msg("sending update request")
	resp, err := httpclient.Do(req)
	if err != nil {
		res.Body = fmt.Sprintf("request_error: %s", err)
		return res
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		res.Body = fmt.Sprintf("read_error: %s", err)
		return res
	}
	res.StatusCode = resp.StatusCode
	res.Body = string(body)
	res.Success = resp.StatusCode >= 200 && resp.StatusCode <= 299 && hasSuccessMarker(res.Body)
	z.logger.Debug().Str("host", host).Int("status", res.StatusCode).Bool("success", res.Success).Msg("update response")
	return res
}

func hasSuccessMarker(body string) bool {
	lower := strings.ToLower(body)
	for _, marker := range successMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
