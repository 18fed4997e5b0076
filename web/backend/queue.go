package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var ErrQueueFull = errors.New("queue full")

// enqueue adds a job for session to the single-worker queue.
func (api *API) enqueue(session *Session, job Job) error {
	api.queueMu.Lock()
	defer api.queueMu.Unlock()

	if len(api.queueOrder) >= api.queueSize {
		return ErrQueueFull
	}
	select {
	case api.jobQueue <- queuedJob{session: session, job: job}:
	default:
		return ErrQueueFull
	}
	api.queueOrder = append(api.queueOrder, session.ID)
	api.broadcastQueueLocked()
	return nil
}

// HandleQueue streams the caller's queue position via SSE.
func (api *API) HandleQueue(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	sessionID := r.URL.Query().Get("session_id")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan struct{}, 1)

	api.queueSubsMu.Lock()
	api.queueSubs[ch] = struct{}{}
	api.queueSubsMu.Unlock()

	defer func() {
		api.queueSubsMu.Lock()
		delete(api.queueSubs, ch)
		api.queueSubsMu.Unlock()
	}()

	sendUpdate := func() {
		pos, total := api.QueuePosition(sessionID)
		data, _ := json.Marshal(map[string]int{
			"position": pos,
			"queued":   total,
		})
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}

	sendUpdate()

	ctx := r.Context()
	for {
		select {
		case <-ch:
			sendUpdate()
		case <-ctx.Done():
			return
		case <-api.done:
			return
		}
	}
}

// QueuePosition returns the 1-based position of sessionID (0 when not
// queued) and the queue length.
func (api *API) QueuePosition(sessionID string) (int, int) {
	api.queueMu.Lock()
	defer api.queueMu.Unlock()
	return queuePosition(api.queueOrder, sessionID), len(api.queueOrder)
}

func (api *API) broadcastQueueLocked() {
	// caller must hold queueMu
	api.queueSubsMu.Lock()
	defer api.queueSubsMu.Unlock()

	for ch := range api.queueSubs {
		select {
		case ch <- struct{}{}:
		default:
			// drop update for slow subscriber
		}
	}
}

// removeQueuedSession removes a session from queueOrder (if present).
func (api *API) removeQueuedSession(sessionID string) {
	api.queueMu.Lock()
	defer api.queueMu.Unlock()

	for i, id := range api.queueOrder {
		if id == sessionID {
			api.queueOrder = append(api.queueOrder[:i], api.queueOrder[i+1:]...)
			api.broadcastQueueLocked()
			return
		}
	}
}

func queuePosition(queue []string, sessionID string) int {
	if sessionID == "" {
		return 0
	}
	for i, id := range queue {
		if id == sessionID {
			return i + 1
		}
	}
	return 0
}
