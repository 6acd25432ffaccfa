package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed run_report.schema.json
var schemaJSON string

const schemaURL = "https://ppigraph.local/schemas/run_report.schema.json"

// ErrSchemaValidation is returned when a report does not satisfy its schema.
var ErrSchemaValidation = errors.New("report: schema validation failed")

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Stage statuses.
const (
	StatusOK      = "ok"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// Signal severities, most severe first.
const (
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

type Signal struct {
	Code     string  `json:"code"`
	Stage    string  `json:"stage"`
	Severity string  `json:"severity"`
	Message  string  `json:"message"`
	Value    float64 `json:"value,omitempty"`
}

type StageMetric struct {
	Name       string             `json:"name"`
	Status     string             `json:"status"`
	StartedAt  string             `json:"started_at"`
	DurationMS int64              `json:"duration_ms"`
	Counters   map[string]float64 `json:"counters,omitempty"`
	Outputs    []string           `json:"outputs,omitempty"`
	Error      string             `json:"error,omitempty"`
}

type Problem struct {
	Key   string `json:"key"`
	Lines []int  `json:"lines"`
}

type Summary struct {
	StageCount        int            `json:"stage_count"`
	FailedStages      int            `json:"failed_stages"`
	SignalsBySeverity map[string]int `json:"signals_by_severity"`
	Counters          map[string]int `json:"counters,omitempty"`
	StrategyHits      map[string]int `json:"strategy_hits,omitempty"`
}

// Report records what one run did, stage by stage.
type Report struct {
	Version     string        `json:"version"`
	RunID       string        `json:"run_id"`
	Mode        string        `json:"mode"`
	GeneratedAt string        `json:"generated_at"`
	Input       string        `json:"input,omitempty"`
	Stages      []StageMetric `json:"stages"`
	Signals     []Signal      `json:"signals,omitempty"`
	Problems    []Problem     `json:"problems,omitempty"`
	Summary     Summary       `json:"summary"`
}

func New(mode, input string) *Report {
	return &Report{
		Version:     "v1",
		RunID:       uuid.NewString(),
		Mode:        mode,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Input:       input,
		Stages:      []StageMetric{},
	}
}

// Stage is an open stage timer. Exactly one of Done, Fail or Skip closes it.
type Stage struct {
	report  *Report
	name    string
	started time.Time
}

func (r *Report) BeginStage(name string) *Stage {
	return &Stage{report: r, name: name, started: time.Now().UTC()}
}

// Done records a successful stage with its counters and written files.
func (s *Stage) Done(counters map[string]float64, outputs ...string) {
	s.close(StatusOK, counters, outputs, nil)
}

// Fail records err against the stage.
func (s *Stage) Fail(err error) {
	s.close(StatusError, nil, nil, err)
}

// Skip records a stage that was disabled for this run.
func (s *Stage) Skip() {
	s.close(StatusSkipped, nil, nil, nil)
}

func (s *Stage) close(status string, counters map[string]float64, outputs []string, err error) {
	m := StageMetric{
		Name:       s.name,
		Status:     status,
		StartedAt:  s.started.Format(time.RFC3339Nano),
		DurationMS: time.Since(s.started).Milliseconds(),
		Counters:   counters,
		Outputs:    outputs,
	}
	if err != nil {
		m.Error = err.Error()
	}
	s.report.Stages = append(s.report.Stages, m)
}

func (r *Report) AddSignal(code, stage, severity, message string, value float64) {
	r.Signals = append(r.Signals, Signal{
		Code:     code,
		Stage:    stage,
		Severity: severity,
		Message:  message,
		Value:    value,
	})
}

func (r *Report) AddProblem(key string, lines []int) {
	r.Problems = append(r.Problems, Problem{Key: key, Lines: append([]int(nil), lines...)})
}

// SetCounters records run totals and per-strategy resolution hits.
func (r *Report) SetCounters(counters, strategyHits map[string]int) {
	r.Summary.Counters = counters
	r.Summary.StrategyHits = strategyHits
}

// Finalize stamps the report and fills the summary. Warnings sort before
// info signals, problems sort by key.
func (r *Report) Finalize() {
	r.GeneratedAt = time.Now().UTC().Format(time.RFC3339)

	sort.SliceStable(r.Signals, func(i, j int) bool {
		a, b := r.Signals[i], r.Signals[j]
		if a.Severity != b.Severity {
			return a.Severity == SeverityWarning
		}
		return a.Code < b.Code
	})
	sort.Slice(r.Problems, func(i, j int) bool { return r.Problems[i].Key < r.Problems[j].Key })

	bySeverity := map[string]int{SeverityWarning: 0, SeverityInfo: 0}
	for _, s := range r.Signals {
		bySeverity[s.Severity]++
	}
	failed := 0
	for _, st := range r.Stages {
		if st.Status == StatusError {
			failed++
		}
	}

	r.Summary.StageCount = len(r.Stages)
	r.Summary.FailedStages = failed
	r.Summary.SignalsBySeverity = bySeverity
}

// Validate checks the report against the embedded JSON schema.
func (r *Report) Validate() error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	schema, err := loadSchema()
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaValidation, err)
	}
	return nil
}

// Save finalizes, validates and writes the report as indented JSON.
func (r *Report) Save(path string) error {
	r.Finalize()
	if err := r.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0644)
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader([]byte(schemaJSON))); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}
