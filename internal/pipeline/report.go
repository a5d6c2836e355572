package pipeline

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/docindex/internal/diag"
)

// RunOutcome is the final classification of a run.
type RunOutcome string

const (
	OutcomeSuccess  RunOutcome = "success"
	OutcomeWarning  RunOutcome = "warning"
	OutcomeFailed   RunOutcome = "failed"
	OutcomeCanceled RunOutcome = "canceled"
)

// RunReport captures what a single index run did, for operators and history.
type RunReport struct {
	ID              string                   `json:"id"`
	Start           time.Time                `json:"start"`
	End             time.Time                `json:"end"`
	Outcome         RunOutcome               `json:"outcome"`
	Language        string                   `json:"language"`
	Artifacts       int                      `json:"artifacts"`
	Services        int                      `json:"services"`
	HomepageTitle   string                   `json:"homepage_title,omitempty"`
	StageDurations  map[string]time.Duration `json:"stage_durations"`
	StageErrorKinds map[string]string        `json:"stage_error_kinds,omitempty"`
	Diagnostics     []diag.Diagnostic        `json:"diagnostics,omitempty"`
	Errors          []string                 `json:"errors,omitempty"`
	Warnings        []string                 `json:"warnings,omitempty"`
}

func newRunReport(language string) *RunReport {
	return &RunReport{
		ID:              uuid.NewString(),
		Start:           time.Now(),
		Language:        language,
		StageDurations:  make(map[string]time.Duration),
		StageErrorKinds: make(map[string]string),
	}
}

func (r *RunReport) finish() {
	r.End = time.Now()
}

// deriveOutcome classifies the run from accumulated errors and warnings.
func (r *RunReport) deriveOutcome() {
	switch {
	case len(r.Errors) > 0:
		r.Outcome = OutcomeFailed
	case len(r.Warnings) > 0 || len(r.Diagnostics) > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

// ToJSON serializes the report.
func (r *RunReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Persist writes the report into the output root (best effort; callers log
// and continue on failure).
func (r *RunReport) Persist(outputRoot string) error {
	data, err := r.ToJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outputRoot, "run-report.json"), data, 0644)
}
