package container

import (
	"context"

	"github.com/docker/docker/client"
)

// Manager provides the container lifecycle operations the tuning domain
// actually drives: killing a probe's container between evaluations.
type Manager struct {
	killMgr *KillManager
}

// NewManager creates a new container Manager
func NewManager(dockerClient *client.Client) *Manager {
	return &Manager{
		killMgr: NewKillManager(dockerClient),
	}
}

// KillContainer kills a container
func (m *Manager) KillContainer(ctx context.Context, containerID string, params KillParams) error {
	return m.killMgr.KillContainer(ctx, containerID, params)
}
