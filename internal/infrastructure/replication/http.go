// Package replication pushes newly created people to the sibling instance.
package replication

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"person-registry/internal/domains/person/model"
)

// IntakePath is the sibling endpoint that accepts replicated people.
const IntakePath = "/people/cache"

// HTTPReplicator posts a person to the sibling's intake endpoint.
// One attempt per call, no retry.
type HTTPReplicator struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPReplicator creates a replicator for siblingURL (scheme://host[:port]).
// timeout bounds each push so a hung sibling only adds bounded latency.
func NewHTTPReplicator(siblingURL string, timeout time.Duration) *HTTPReplicator {
	return &HTTPReplicator{
		endpoint: strings.TrimRight(siblingURL, "/") + IntakePath,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Endpoint returns the full intake URL pushes go to.
func (r *HTTPReplicator) Endpoint() string {
	return r.endpoint
}

// Push sends p to the sibling and reports any failure wrapped in model.ErrReplication.
func (r *HTTPReplicator) Push(ctx context.Context, p model.Person) error {
	encoded, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: encoding person: %v", model.ErrReplication, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("%w: creating request: %v", model.ErrReplication, err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := r.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrReplication, err)
	}
	defer response.Body.Close()
	_, _ = io.Copy(io.Discard, response.Body)

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("%w: sibling answered %d", model.ErrReplication, response.StatusCode)
	}
	return nil
}

// Replicate pushes p in the caller's goroutine. Failures are logged and swallowed.
// The caller's cancellation is not propagated; the client timeout bounds the call.
func (r *HTTPReplicator) Replicate(ctx context.Context, p model.Person) {
	if err := r.Push(context.WithoutCancel(ctx), p); err != nil {
		log.Warn().Err(err).Str("person_id", p.ID).Str("endpoint", r.endpoint).Msg("[REPLICATION] Push failed")
		return
	}
	log.Debug().Str("person_id", p.ID).Msg("[REPLICATION] Pushed to sibling")
}
