package storage

import (
	"context"
	"net/http"
	"time"
)

// SizeProber finds the byte size of a remote asset.
type SizeProber interface {
	ProbeSize(ctx context.Context, rawURL string) (int64, bool)
}

// HTTPProber issues a HEAD request and trusts a positive Content-Length.
type HTTPProber struct {
	Client *http.Client
}

func NewHTTPProber(timeout time.Duration) *HTTPProber {
	return &HTTPProber{Client: &http.Client{Timeout: timeout}}
}

func (p *HTTPProber) ProbeSize(ctx context.Context, rawURL string) (int64, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return 0, false
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 || resp.ContentLength <= 0 {
		return 0, false
	}
	return resp.ContentLength, true
}
