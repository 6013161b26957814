package gemini

import (
	"fmt"
	"log/slog"
	"sync"
)

// clientPool rotates requests across the configured Gemini API keys and falls
// back to the next key when one is rate limited or failing.
type clientPool struct {
	clients []GeminiClient
	next    int
	mu      sync.Mutex
}

func newClientPool(clients []GeminiClient) *clientPool {
	return &clientPool{clients: clients}
}

func (p *clientPool) pick() (*GeminiClient, int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.clients) == 0 {
		return nil, -1
	}

	idx := p.next
	p.next = (p.next + 1) % len(p.clients)
	return &p.clients[idx], idx
}

// tryAll runs op against each client in rotation order until one succeeds.
// Every key gets at most one attempt per call.
func (p *clientPool) tryAll(op func(client *GeminiClient, clientIdx int) error) error {
	total := len(p.clients)
	if total == 0 {
		return fmt.Errorf("no Gemini clients available")
	}

	var lastErr error
	for attempt := 0; attempt < total; attempt++ {
		client, idx := p.pick()

		if err := op(client, idx); err != nil {
			lastErr = err
			slog.Warn("Gemini request failed, rotating to next key",
				"client_index", idx,
				"attempt", attempt+1,
				"error", err)
			continue
		}
		return nil
	}

	slog.Error("All Gemini clients exhausted", "total_attempts", total, "error", lastErr)
	return fmt.Errorf("all %d Gemini clients failed, last error: %w", total, lastErr)
}
