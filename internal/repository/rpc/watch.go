package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"dstu/internal/domain"
	models "dstu/internal/domain/models/dstu"
	dstuRepo "dstu/internal/domain/repositories/dstu"
)

// NewWatcher creates the change-notification side of the boundary, sharing
// the same transport as the procedure calls.
func NewWatcher(client *Client) dstuRepo.Watcher {
	return &Backend{client: client}
}

// Watch subscribes to the backend's server-sent-events change stream for
// pathOrWildcard. Events are decoded onto the returned channel, which is
// closed when ctx is cancelled or the stream ends.
func (b *Backend) Watch(ctx context.Context, pathOrWildcard string) (<-chan models.ChangeEvent, error) {
	streamURL := b.client.baseURL + "/rpc/watch?pattern=" + url.QueryEscape(pathOrWildcard)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return nil, &domain.InternalError{Message: "build watch request", Cause: err}
	}
	req.Header.Set("Accept", "text/event-stream")
	if b.client.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.client.token)
	}

	resp, err := b.client.stream.Do(req)
	if err != nil {
		return nil, &domain.InternalError{Message: "open watch stream", Cause: err}
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, b.client.errorFromResponse("watch", resp)
	}

	events := make(chan models.ChangeEvent)
	go b.readStream(ctx, resp, events)
	return events, nil
}

// readStream decodes SSE frames until the stream ends. rpc uses only data
// frames; comment and event-name lines are skipped.
func (b *Backend) readStream(ctx context.Context, resp *http.Response, events chan<- models.ChangeEvent) {
	defer close(events)
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)

	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if payload, ok := strings.CutPrefix(line, "data:"); ok {
			data.WriteString(strings.TrimSpace(payload))
			continue
		}
		if line != "" {
			continue
		}
		if data.Len() == 0 {
			continue
		}

		var ev models.ChangeEvent
		if err := json.Unmarshal([]byte(data.String()), &ev); err != nil {
			b.client.logger.Warn("dropping undecodable change event", "error", err)
			data.Reset()
			continue
		}
		data.Reset()

		if ev.Node != nil {
			_ = b.finishNode(ev.Node)
		}

		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		b.client.logger.Warn("watch stream ended", "error", err)
	}
}
