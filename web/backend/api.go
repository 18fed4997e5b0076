package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const size = 100

// Job is a unit of work executed by the queue worker.
type Job interface {
	// Run executes the job. It reports progress on the session and stops when
	// the session is cancelled.
	Run(api *API, session *Session)
}

// queuedJob is an item in the processing queue
type queuedJob struct {
	session *Session
	job     Job
}

// Defaults fill request fields the client leaves out.
type Defaults struct {
	Fee  int64
	Mode string
}

// API serves the reconciliation endpoints.
type API struct {
	sessions *SessionManager
	defaults Defaults
	log      *logrus.Entry

	// queue so that only one batch job runs at a time
	jobQueue  chan queuedJob
	queueSize int

	// queueOrder tracks session IDs in enqueue order (protected by queueMu)
	queueMu    sync.Mutex
	queueOrder []string

	// queue SSE subscribers
	queueSubs   map[chan struct{}]struct{}
	queueSubsMu sync.Mutex

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func NewAPI(defaults Defaults, log *logrus.Entry) *API {
	api := &API{
		sessions:   NewSessionManager(),
		defaults:   defaults,
		log:        log,
		queueSize:  size,
		jobQueue:   make(chan queuedJob, size),
		queueOrder: make([]string, 0, size),
		queueSubs:  make(map[chan struct{}]struct{}),
		done:       make(chan struct{}),
	}

	// Single worker processes jobs sequentially
	api.wg.Add(1)
	go api.work()

	// Cleanup stale sessions every hour
	api.wg.Add(1)
	go func() {
		defer api.wg.Done()
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				api.sessions.CleanupStale(24 * time.Hour)
			case <-api.done:
				return
			}
		}
	}()

	return api
}

func (api *API) work() {
	defer api.wg.Done()
	for {
		select {
		case <-api.done:
			return
		case job := <-api.jobQueue:
			api.removeQueuedSession(job.session.ID)

			// Skip sessions cancelled while waiting
			if job.session.Ctx.Err() != nil {
				job.session.finish()
				continue
			}
			job.job.Run(api, job.session)
			job.session.finish()
		}
	}
}

// Close stops the worker and cancels every session.
func (api *API) Close() {
	api.closeOnce.Do(func() {
		close(api.done)
		api.sessions.CleanupStale(-1)
	})
	api.wg.Wait()
}

// HandleHealth reports liveness and queue depth.
func (api *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_, queued := api.QueuePosition("")
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"queued":   queued,
		"sessions": api.sessions.Len(),
	})
}

// HandleProgress streams progress updates via SSE
func (api *API) HandleProgress(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	session, ok := api.sessions.GetSessionByID(sessionID)
	if !ok || session == nil {
		http.Error(w, "No active session", http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Listen for client disconnect via request context
	notify := r.Context().Done()

	for {
		select {
		case update, okCh := <-session.Progress:
			if !okCh {
				return
			}
			data, _ := json.Marshal(update)
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()

			if update.Type == UpdateComplete || update.Type == UpdateError {
				return
			}
		case <-session.Ctx.Done():
			return
		case <-notify:
			return
		}
	}
}

// HandleCancel cancels a queued or running batch.
func (api *API) HandleCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_required", "session_id required")
		return
	}

	api.removeQueuedSession(sessionID)
	if !api.sessions.RemoveBySessionID(sessionID) {
		http.Error(w, "No active session", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}
