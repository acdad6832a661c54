// Package httpprobe performs the single HTTP GET used to record
// parking/forwarding behavior of a domain.
package httpprobe

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/northroot-labs/dnsops/domain/model"
)

// Prober issues one GET per probe. Redirects are not followed so a
// registrar forwarding 302 stays visible in the result.
type Prober struct {
	client *http.Client
}

// New returns a Prober with the given per-probe timeout (0 means 15s).
func New(timeout time.Duration) *Prober {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Prober{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Probe fetches target ("http://example.com/") and records status code
// and response headers. Header keys are stored lower-cased so signature
// matching is case-insensitive.
func (p *Prober) Probe(ctx context.Context, target string) (*model.HTTPProbe, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build probe request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", target, err)
	}
	defer resp.Body.Close()

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[strings.ToLower(k)] = resp.Header.Get(k)
	}
	return &model.HTTPProbe{
		StatusCode: resp.StatusCode,
		Location:   resp.Header.Get("Location"),
		Server:     resp.Header.Get("Server"),
		Headers:    headers,
	}, nil
}
