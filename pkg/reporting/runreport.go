package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jihwankim/satuner/pkg/paramspace"
)

// RunReport summarizes one completed solve run, the tuner-domain analogue
// of TestReport — sized to what a solver run actually produces rather than
// a fault scenario's targets/faults/criteria.
type RunReport struct {
	RunID      string            `json:"run_id"`
	SolverKind string            `json:"solver_kind"`
	StartTime  time.Time         `json:"start_time"`
	EndTime    time.Time         `json:"end_time"`
	Duration   string            `json:"duration"`
	Steps      int               `json:"steps"`
	Workers    int               `json:"workers"`
	BestEnergy float64           `json:"best_energy"`
	BestState  paramspace.State  `json:"best_state"`
	Error      string            `json:"error,omitempty"`
}

// SaveRunReport writes report to outputDir as a single indented JSON file
// named after its RunID, mirroring Storage.SaveReport's naming convention.
func SaveRunReport(outputDir string, report *RunReport) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("reporting: creating output dir %s: %w", outputDir, err)
	}
	timestamp := report.StartTime.Format("20060102-150405")
	filename := fmt.Sprintf("run-%s-%s.json", timestamp, report.RunID)
	path := filepath.Join(outputDir, filename)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("reporting: marshalling run report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("reporting: writing run report: %w", err)
	}
	return path, nil
}
