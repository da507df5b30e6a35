// Package upstream provides the daemon's concrete Backend: a thin HTTP
// adapter that warms, invokes, and releases a model runtime behind a
// per-descriptor endpoint. The scheduler itself never depends on it.
package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"schedd/internal/scheduler"
	"schedd/pkg/types"
)

// control payloads sent to the upstream runtime.
var (
	warmupBody  = []byte(`{"op":"warmup"}`)
	releaseBody = []byte(`{"op":"release"}`)
)

// Backend proxies scheduler operations to an HTTP upstream.
type Backend struct {
	id       string
	endpoint string
	costMB   int
	client   *http.Client
	ready    atomic.Bool
	log      zerolog.Logger
}

// New builds a Backend for the descriptor. The endpoint must be set.
func New(desc types.BackendDescriptor, log zerolog.Logger) (*Backend, error) {
	if desc.Endpoint == "" {
		return nil, fmt.Errorf("backend %s: no endpoint configured", desc.ID)
	}
	return &Backend{
		id:       desc.ID,
		endpoint: desc.Endpoint,
		costMB:   desc.MemoryCostMB,
		// Long timeout: warming a runtime can take minutes.
		client: &http.Client{Timeout: 5 * time.Minute},
		log:    log,
	}, nil
}

// Factory returns a scheduler.Factory constructing HTTP backends.
func Factory(log zerolog.Logger) scheduler.Factory {
	return func(desc types.BackendDescriptor) (scheduler.Backend, error) {
		return New(desc, log)
	}
}

// Load warms the upstream with a minimal control request.
func (b *Backend) Load(ctx context.Context) error {
	if _, err := b.post(ctx, warmupBody); err != nil {
		return err
	}
	b.ready.Store(true)
	b.log.Debug().Str("backend", b.id).Msg("upstream warmed")
	return nil
}

// Unload tells the upstream to release the runtime. Best effort: a dead
// upstream has nothing left to release.
func (b *Backend) Unload() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	b.ready.Store(false)
	if _, err := b.post(ctx, releaseBody); err != nil {
		return err
	}
	return nil
}

// Invoke forwards the payload verbatim and returns the upstream's raw
// response body.
func (b *Backend) Invoke(ctx context.Context, payload []byte) ([]byte, error) {
	return b.post(ctx, payload)
}

// IsReady reports whether the last warmup succeeded.
func (b *Backend) IsReady() bool { return b.ready.Load() }

// MemoryFootprintMB is the declared cost; the adapter trusts the descriptor.
func (b *Backend) MemoryFootprintMB() int { return b.costMB }

func (b *Backend) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(out))
	}
	return out, nil
}
