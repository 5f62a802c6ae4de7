// Package report writes a YAML summary of a search run.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/bartolsthoorn/wavepick/wave"
)

// Attempt is one k-subproblem line of a report.
type Attempt struct {
	K        int     `yaml:"k"`
	Status   string  `yaml:"status"`
	Units    int     `yaml:"units"`
	Ratio    float64 `yaml:"ratio"`
	Bound    float64 `yaml:"bound"`
	Duration string  `yaml:"duration"`
}

// Report summarizes one solve run.
type Report struct {
	RunID       string        `yaml:"run_id"`
	Instance    string        `yaml:"instance"`
	Fingerprint string        `yaml:"fingerprint"`
	Backend     string        `yaml:"backend"`
	Cached      bool          `yaml:"cached"`
	Ratio       float64       `yaml:"ratio"`
	K           int           `yaml:"k"`
	Optimal     bool          `yaml:"optimal"`
	Stopped     string        `yaml:"stopped"`
	Orders      int           `yaml:"orders"`
	Aisles      int           `yaml:"aisles"`
	Solution    wave.Solution `yaml:"solution"`
	Elapsed     string        `yaml:"elapsed"`
	Attempts    []Attempt     `yaml:"attempts,omitempty"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// FromResult builds a report for a finished search.
func FromResult(runID, instance string, fingerprint uint64, backend string, res *wave.Result) *Report {
	r := &Report{
		RunID:       runID,
		Instance:    instance,
		Fingerprint: fmt.Sprintf("%016x", fingerprint),
		Backend:     backend,
		Ratio:       res.Ratio,
		K:           res.K,
		Optimal:     res.Optimal,
		Stopped:     string(res.Stopped),
		Orders:      len(res.Solution.Orders),
		Aisles:      len(res.Solution.Aisles),
		Solution:    res.Solution,
		Elapsed:     res.Elapsed.Round(time.Millisecond).String(),
	}
	for _, a := range res.Attempts {
		r.Attempts = append(r.Attempts, Attempt{
			K:        a.K,
			Status:   a.Status.String(),
			Units:    a.Units,
			Ratio:    a.Ratio,
			Bound:    a.Bound,
			Duration: a.Duration.Round(time.Microsecond).String(),
		})
	}
	return r
}

// Write encodes r as YAML.
func (r *Report) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return enc.Close()
}

// Read decodes a report written by Write.
func Read(rd io.Reader) (*Report, error) {
	var r Report
	if err := yaml.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}
