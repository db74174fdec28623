// Package csv implements a result sink that appends each intermediate
// result as a CSV row, grounded on pkg/reporting.Storage's timestamped
// output-file convention in the teacher repo.
package csv

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/jihwankim/satuner/pkg/tuner"
)

var header = []string{
	"step", "worker_id", "temperature", "wall_time_s", "cpu_time_s",
	"last_energy", "last_state", "best_energy", "best_state",
}

// Sink writes one CSV row per emitted IntermediateResult.
type Sink struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// New creates outputDir if needed and opens filename (or a default name)
// for appending CSV rows, writing the header if the file is new.
func New(outputDir, filename string) (*Sink, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("sink/csv: creating output dir %s: %w", outputDir, err)
	}
	if filename == "" {
		filename = "results.csv"
	}
	path := filepath.Join(outputDir, filename)

	_, statErr := os.Stat(path)
	needsHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("sink/csv: opening %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if needsHeader {
		if err := w.Write(header); err != nil {
			f.Close()
			return nil, fmt.Errorf("sink/csv: writing header: %w", err)
		}
		w.Flush()
	}
	return &Sink{file: f, writer: w}, nil
}

// Emit appends r as one CSV row, flushing immediately so a crashed run
// still leaves a readable partial file.
func (s *Sink) Emit(r tuner.IntermediateResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lastState, err := json.Marshal(r.LastState)
	if err != nil {
		return fmt.Errorf("sink/csv: marshalling last_state: %w", err)
	}
	bestState, err := json.Marshal(r.BestState)
	if err != nil {
		return fmt.Errorf("sink/csv: marshalling best_state: %w", err)
	}

	row := []string{
		strconv.Itoa(r.Step),
		strconv.Itoa(r.WorkerID),
		strconv.FormatFloat(r.Temperature, 'g', -1, 64),
		strconv.FormatFloat(r.WallTimeS, 'g', -1, 64),
		strconv.FormatFloat(r.CPUTimeS, 'g', -1, 64),
		strconv.FormatFloat(r.LastEnergy, 'g', -1, 64),
		string(lastState),
		strconv.FormatFloat(r.BestEnergy, 'g', -1, 64),
		string(bestState),
	}
	if err := s.writer.Write(row); err != nil {
		return fmt.Errorf("sink/csv: writing row: %w", err)
	}
	s.writer.Flush()
	return s.writer.Error()
}

// Close flushes and closes the underlying file.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer.Flush()
	return s.file.Close()
}
