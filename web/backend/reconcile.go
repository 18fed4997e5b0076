package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/Another0Noob/attendance-recon/internal/batch"
	"github.com/Another0Noob/attendance-recon/internal/reconcile"
	"github.com/Another0Noob/attendance-recon/internal/report"
	"github.com/Another0Noob/attendance-recon/internal/schedule"
	"github.com/Another0Noob/attendance-recon/internal/tables"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 8 << 20

// ClassRequest is the schedule part of a request. Structured fields, when
// set, win over what is parsed from Schedule.
type ClassRequest struct {
	Schedule string `json:"schedule"`
	Sessions string `json:"sessions,omitempty"`
	Date     string `json:"date,omitempty"`
	Fee      int64  `json:"fee,omitempty"`
	Mode     string `json:"mode,omitempty"`
	Online   string `json:"online,omitempty"`
	Onsite   string `json:"onsite,omitempty"`
}

func (c ClassRequest) row(id int64) schedule.Row {
	return schedule.Row{ID: id, Text: c.Schedule, Sessions: c.Sessions, Date: c.Date, Fee: c.Fee, Mode: c.Mode}
}

// ReconcileRequest reconciles one class. Online and Onsite are newline
// separated participant lists.
type ReconcileRequest struct {
	Roster   tables.Sheet  `json:"roster"`
	Feedback *tables.Sheet `json:"feedback,omitempty"`
	ClassRequest
}

type ReconcileResponse struct {
	RunID     string                `json:"run_id"`
	Report    report.Bundle         `json:"report"`
	Records   []RecordView          `json:"records"`
	Ambiguous []reconcile.Ambiguity `json:"ambiguous"`
	Ghosts    []string              `json:"ghosts"`
	Unmatched []reconcile.Unmatched `json:"unmatched"`
	Pending   []string              `json:"pending_feedback"`
}

// RecordView is a record with its roster name, in roster order.
type RecordView struct {
	Name string `json:"name"`
	reconcile.Record
}

type BatchRequest struct {
	Roster   tables.Sheet   `json:"roster"`
	Feedback *tables.Sheet  `json:"feedback,omitempty"`
	Classes  []ClassRequest `json:"classes"`
}

// HandleReconcile runs one reconciliation synchronously.
func (api *API) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req ReconcileRequest
	if !decode(w, r, &req) {
		return
	}

	roster, feedback, ok := api.inputs(w, &req.Roster, req.Feedback)
	if !ok {
		return
	}

	runID := uuid.New().String()
	class := batch.ClassFor(req.row(1), api.defaults.Fee, api.defaults.Mode)
	res, err := reconcile.Run(reconcile.Input{
		Roster:   roster,
		Online:   splitLines(req.Online),
		Onsite:   splitLines(req.Onsite),
		Feedback: feedback,
		Sessions: class.Sessions,
	})
	if err != nil {
		writeInputError(w, err)
		return
	}

	resp := ReconcileResponse{
		RunID:     runID,
		Report:    report.Build(class, res, roster),
		Ambiguous: res.Ambiguous,
		Ghosts:    res.Ghosts,
		Unmatched: res.Unmatched,
		Pending:   res.PendingFeedback(),
	}
	for _, name := range res.Order {
		resp.Records = append(resp.Records, RecordView{Name: name, Record: res.Records[name]})
	}

	api.log.WithFields(logrus.Fields{
		"run_id":     runID,
		"class_code": class.ClassCode,
		"sessions":   class.Sessions,
		"present":    resp.Report.Summary.Present,
		"ghosts":     len(res.Ghosts),
		"ambiguous":  len(res.Ambiguous),
	}).Info("reconciled")
	writeJSON(w, http.StatusOK, resp)
}

// HandleBatch queues a batch of classes and returns the session to follow.
func (api *API) HandleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req BatchRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Classes) == 0 {
		writeError(w, http.StatusBadRequest, "classes_empty", "no classes to reconcile")
		return
	}

	roster, feedback, ok := api.inputs(w, &req.Roster, req.Feedback)
	if !ok {
		return
	}
	if roster.Len() == 0 {
		writeError(w, http.StatusBadRequest, reconcile.ErrCodeRosterEmpty, "roster has no names")
		return
	}

	job := &batchJob{
		shared: batch.Shared{Roster: roster, Feedback: feedback, Fee: api.defaults.Fee, Mode: api.defaults.Mode},
		lines:  make(map[int64][2][]string, len(req.Classes)),
	}
	for i, c := range req.Classes {
		id := int64(i + 1)
		job.rows = append(job.rows, c.row(id))
		job.lines[id] = [2][]string{splitLines(c.Online), splitLines(c.Onsite)}
	}

	session := api.sessions.CreateSession(clientID(r), len(job.rows)+4)
	if err := api.enqueue(session, job); err != nil {
		api.sessions.RemoveBySessionID(session.ID)
		writeError(w, http.StatusServiceUnavailable, "queue_full", err.Error())
		return
	}
	pos, total := api.QueuePosition(session.ID)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"session_id": session.ID,
		"position":   pos,
		"queued":     total,
	})
}

type batchJob struct {
	shared batch.Shared
	rows   []schedule.Row
	lines  map[int64][2][]string
}

func (j *batchJob) Run(api *API, session *Session) {
	log := api.log.WithField("run_id", session.ID)
	session.send(ProgressUpdate{Type: UpdateInfo, Message: fmt.Sprintf("reconciling %d classes", len(j.rows))})

	runner := &batch.Runner{
		Shared: j.shared,
		Source: func(row schedule.Row) ([]string, []string, error) {
			l := j.lines[row.ID]
			return l[0], l[1], nil
		},
		Progress: func(done, total int, o batch.Outcome) {
			session.send(ProgressUpdate{
				Type:    UpdateProgress,
				Message: fmt.Sprintf("class %d/%d done", done, total),
				Data:    o,
			})
		},
		Log: log,
	}
	out, err := runner.Run(session.Ctx, j.rows)
	if err != nil {
		log.WithError(err).Warn("batch stopped")
		session.send(ProgressUpdate{Type: UpdateError, Message: err.Error()})
		return
	}
	session.send(ProgressUpdate{Type: UpdateComplete, Message: "batch complete", Data: out})
}

func (api *API) inputs(w http.ResponseWriter, rosterSheet, feedbackSheet *tables.Sheet) (*tables.Roster, *tables.Feedback, bool) {
	roster, err := tables.NewRoster(rosterSheet)
	if err != nil {
		writeInputError(w, err)
		return nil, nil, false
	}
	feedback := &tables.Feedback{}
	if feedbackSheet != nil && len(feedbackSheet.Headers) > 0 {
		if feedback, err = tables.NewFeedback(feedbackSheet); err != nil {
			writeInputError(w, err)
			return nil, nil, false
		}
	}
	return roster, feedback, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("invalid JSON: %v", err))
		return false
	}
	return true
}

func writeInputError(w http.ResponseWriter, err error) {
	var ie *reconcile.InputError
	switch {
	case tables.Code(err) != "":
		writeError(w, http.StatusBadRequest, tables.Code(err), err.Error())
	case errors.As(err, &ie):
		writeError(w, http.StatusBadRequest, ie.Code, ie.Message)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func splitLines(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// clientID identifies the caller for session ownership: the X-Client-ID
// header when present, else the remote host.
func clientID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get("X-Client-ID")); id != "" {
		return id
	}
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
