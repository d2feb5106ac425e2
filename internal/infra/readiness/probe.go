package readiness

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"jasper-launcher/internal/application/version"
	"jasper-launcher/pkg/backoff"
	"jasper-launcher/pkg/log"
)

const (
	defaultBaseDelay = 100 * time.Millisecond
	defaultMaxDelay  = 5 * time.Second
	requestTimeout   = 5 * time.Second
)

// Prober polls HTTP endpoints until they answer 200 OK.
type Prober struct {
	client    *http.Client
	baseDelay time.Duration
	maxDelay  time.Duration
}

// NewProber returns a prober with the default backoff bounds.
func NewProber() *Prober {
	return &Prober{
		client:    &http.Client{Timeout: requestTimeout},
		baseDelay: defaultBaseDelay,
		maxDelay:  defaultMaxDelay,
	}
}

// WithDelays overrides the backoff bounds.
func (p *Prober) WithDelays(base, max time.Duration) *Prober {
	p.baseDelay = base
	p.maxDelay = max
	return p
}

// WaitFor200 blocks until url answers 200 OK or ctx ends.
func (p *Prober) WaitFor200(ctx context.Context, url string) error {
	bo := backoff.New(p.baseDelay, p.maxDelay)
	for {
		ok, err := p.check(ctx, url)
		if ok {
			log.Debug("Endpoint is ready", "url", url, "attempts", bo.Attempts()+1)
			return nil
		}
		if err != nil {
			log.Debug("Endpoint not ready yet", "url", url, "error", err)
		}
		if err := bo.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for %s: %w", url, err)
		}
	}
}

// WaitAll waits for every url in order.
func (p *Prober) WaitAll(ctx context.Context, urls ...string) error {
	for _, url := range urls {
		if err := p.WaitFor200(ctx, url); err != nil {
			return err
		}
	}
	return nil
}

func (p *Prober) check(ctx context.Context, url string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", version.UserAgent())
	resp, err := p.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("status %d", resp.StatusCode)
	}
	return true, nil
}
