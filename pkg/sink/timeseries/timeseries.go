// Package timeseries implements a result sink that pushes intermediate
// results to a Prometheus Pushgateway, adapted from the teacher's
// pkg/monitoring/collector.Collector: the same map-plus-RWMutex sample
// store and ticker-driven background loop, but pushing samples out instead
// of polling them in.
package timeseries

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/jihwankim/satuner/pkg/tuner"
)

// Config configures the Pushgateway sink.
type Config struct {
	GatewayURL string
	JobName    string
	Interval   time.Duration
}

type sample struct {
	temperature float64
	lastEnergy  float64
	bestEnergy  float64
	step        int
}

// Sink buffers the latest sample per worker and pushes it to a Pushgateway
// on a fixed interval, plus once more on Close.
type Sink struct {
	mu      sync.RWMutex
	samples map[int]sample
	running bool
	stopCh  chan struct{}

	pusher     *push.Pusher
	registry   *prometheus.Registry
	temp       *prometheus.GaugeVec
	lastEnergy *prometheus.GaugeVec
	bestEnergy *prometheus.GaugeVec
	step       *prometheus.GaugeVec

	interval time.Duration
}

// New registers the gauges, wires a Pusher at cfg.GatewayURL, and starts
// the background push loop.
func New(cfg Config) (*Sink, error) {
	if cfg.GatewayURL == "" {
		return nil, fmt.Errorf("sink/timeseries: GatewayURL is required")
	}
	if cfg.JobName == "" {
		cfg.JobName = "satuner"
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}

	registry := prometheus.NewRegistry()
	labels := []string{"worker_id"}
	temp := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "satuner_temperature", Help: "current annealing temperature"}, labels)
	lastEnergy := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "satuner_last_energy", Help: "last probed energy"}, labels)
	bestEnergy := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "satuner_best_energy", Help: "best energy found so far"}, labels)
	step := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "satuner_step", Help: "worker-local step index"}, labels)
	registry.MustRegister(temp, lastEnergy, bestEnergy, step)

	pusher := push.New(cfg.GatewayURL, cfg.JobName).Gatherer(registry)

	s := &Sink{
		samples:    make(map[int]sample),
		stopCh:     make(chan struct{}),
		pusher:     pusher,
		registry:   registry,
		temp:       temp,
		lastEnergy: lastEnergy,
		bestEnergy: bestEnergy,
		step:       step,
		interval:   cfg.Interval,
		running:    true,
	}
	go s.pushLoop()
	return s, nil
}

// Emit records r as the latest sample for its worker and updates the
// corresponding gauges.
func (s *Sink) Emit(r tuner.IntermediateResult) error {
	s.mu.Lock()
	s.samples[r.WorkerID] = sample{
		temperature: r.Temperature,
		lastEnergy:  r.LastEnergy,
		bestEnergy:  r.BestEnergy,
		step:        r.Step,
	}
	s.mu.Unlock()

	label := prometheus.Labels{"worker_id": fmt.Sprintf("%d", r.WorkerID)}
	s.temp.With(label).Set(r.Temperature)
	s.lastEnergy.With(label).Set(r.LastEnergy)
	s.bestEnergy.With(label).Set(r.BestEnergy)
	s.step.With(label).Set(float64(r.Step))
	return nil
}

func (s *Sink) pushLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			_ = s.pusher.Push()
		}
	}
}

// Close stops the background loop and pushes one final snapshot.
func (s *Sink) Close() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	return s.pusher.Push()
}

// Samples returns a copy of the latest per-worker samples, for tests and
// diagnostics.
func (s *Sink) Samples() map[int]tuner.IntermediateResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int]tuner.IntermediateResult, len(s.samples))
	for id, sm := range s.samples {
		out[id] = tuner.IntermediateResult{
			WorkerID:    id,
			Temperature: sm.temperature,
			LastEnergy:  sm.lastEnergy,
			BestEnergy:  sm.bestEnergy,
			Step:        sm.step,
		}
	}
	return out
}
