package docker_test

import (
	"testing"

	dockerdisc "github.com/jihwankim/satuner/pkg/discovery/docker"
	"github.com/jihwankim/satuner/pkg/evalsvc/docker"
	"github.com/jihwankim/satuner/pkg/paramspace"
)

// unreachableClient builds a real *dockerdisc.Client pointed at a DOCKER_HOST
// nothing is listening on. Construction itself is lazy (it only reads
// environment configuration), so this succeeds without a daemon; every API
// call made through it fails fast with a connection error, which is enough
// to exercise Evaluate's deploy-failure path end to end.
func unreachableClient(t *testing.T) *dockerdisc.Client {
	t.Helper()
	t.Setenv("DOCKER_HOST", "tcp://127.0.0.1:1")
	client, err := dockerdisc.New()
	if err != nil {
		t.Fatalf("dockerdisc.New: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestEvaluateFailsWhenDaemonUnreachable(t *testing.T) {
	e := docker.New(docker.Config{
		Client:       unreachableClient(t),
		Image:        "satuner-bench:latest",
		BenchmarkCmd: []string{"/bin/bench"},
	})

	if _, ok := e.Evaluate(paramspace.State{"threads": "4"}, 0); ok {
		t.Fatal("Evaluate() ok = true with an unreachable Docker daemon, want false")
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	e := docker.New(docker.Config{
		Client:       unreachableClient(t),
		Image:        "satuner-bench:latest",
		BenchmarkCmd: []string{"/bin/bench"},
	})
	if e == nil {
		t.Fatal("New() returned nil")
	}
}
