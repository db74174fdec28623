// Package perfcounters implements the periodic hardware-counter sampling
// the predecessor's perf-counter module performed alongside each
// evaluation, supplementing the distilled spec with a feature
// original_source/ carries but spec.md does not mention. A producer
// goroutine samples on an interval and feeds a bounded channel; the
// consumer drains it for the evaluation's duration. No evaluator or
// solver in this module imports the package, so IntermediateResult's
// CPUTimeS is not filled from it.
package perfcounters

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Sample is one perf-counter reading.
type Sample struct {
	Timestamp time.Time
	CPUTimeS  float64
	Raw       string
}

// Sampler runs Command on Interval and parses its last line as a CPU-time
// value in seconds.
type Sampler struct {
	Command  []string
	Interval time.Duration
	BufSize  int
}

// Start launches the producer goroutine and returns a channel of samples;
// it closes the channel and stops sampling when ctx is cancelled.
func (s *Sampler) Start(ctx context.Context) <-chan Sample {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Second
	}
	bufSize := s.BufSize
	if bufSize <= 0 {
		bufSize = 16
	}

	out := make(chan Sample, bufSize)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sample, err := s.sample(ctx)
				if err != nil {
					continue
				}
				select {
				case out <- sample:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func (s *Sampler) sample(ctx context.Context) (Sample, error) {
	cmd := exec.CommandContext(ctx, s.Command[0], s.Command[1:]...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	if err := cmd.Run(); err != nil {
		return Sample{}, err
	}
	trimmed := strings.TrimSpace(buf.String())
	val, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return Sample{}, err
	}
	return Sample{Timestamp: time.Now(), CPUTimeS: val, Raw: trimmed}, nil
}
