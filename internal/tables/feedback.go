package tables

import "fmt"

// FeedbackRow is one submitted feedback form. Session is the raw session
// cell, possibly naming several sessions.
type FeedbackRow struct {
	Name    string `json:"name"`
	Session string `json:"session,omitempty"`
}

// Feedback is the exported feedback form responses.
type Feedback struct {
	Rows       []FeedbackRow `json:"rows"`
	HasSession bool          `json:"has_session"`
}

var sessionKeywords = []string{"pertemuan", "sesi", "session"}

// NewFeedback locates the name column, required, and the session column,
// optional. Without a session column every row counts for every session.
func NewFeedback(sheet *Sheet) (*Feedback, error) {
	nameIdx := sheet.Column(nameKeywords...)
	if nameIdx < 0 {
		return nil, &ColumnError{Table: "feedback", Column: "name", Headers: sheet.Headers}
	}
	sessIdx := sheet.Column(sessionKeywords...)
	if sessIdx == nameIdx {
		sessIdx = -1
	}

	fb := &Feedback{HasSession: sessIdx >= 0, Rows: make([]FeedbackRow, 0, len(sheet.Records))}
	for _, rec := range sheet.Records {
		name := Cell(rec, nameIdx)
		if name == "" {
			continue
		}
		fb.Rows = append(fb.Rows, FeedbackRow{Name: name, Session: Cell(rec, sessIdx)})
	}
	return fb, nil
}

// ReadFeedbackFile reads and validates a feedback file. An empty path yields
// an empty feedback table.
func ReadFeedbackFile(path string) (*Feedback, error) {
	if path == "" {
		return &Feedback{}, nil
	}
	sheet, err := ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read feedback: %w", err)
	}
	return NewFeedback(sheet)
}
