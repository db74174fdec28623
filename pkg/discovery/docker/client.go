package docker

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	specs "github.com/opencontainers/image-spec/specs-go/v1"
)

// Client wraps the Docker API client for the container lifecycle calls an
// energy evaluation needs: create, start, exec the benchmark, inspect, stop,
// remove.
type Client struct {
	cli *client.Client
}

// New creates a new Docker client
func New() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return &Client{cli: cli}, nil
}

// Close closes the Docker client connection
func (c *Client) Close() error {
	if c.cli != nil {
		return c.cli.Close()
	}
	return nil
}

// GetClient returns the underlying Docker API client
func (c *Client) GetClient() *client.Client {
	return c.cli
}

// ExecCommand executes a command in a container and returns output
func (c *Client) ExecCommand(ctx context.Context, containerID string, cmd []string) (string, error) {
	// Create exec instance
	execConfig := types.ExecConfig{
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
	}

	execID, err := c.cli.ContainerExecCreate(ctx, containerID, execConfig)
	if err != nil {
		return "", fmt.Errorf("failed to create exec: %w", err)
	}

	// Attach to exec instance
	resp, err := c.cli.ContainerExecAttach(ctx, execID.ID, types.ExecStartCheck{})
	if err != nil {
		return "", fmt.Errorf("failed to attach to exec: %w", err)
	}
	defer resp.Close()

	// Read output
	output, err := io.ReadAll(resp.Reader)
	if err != nil {
		return string(output), fmt.Errorf("failed to read output: %w", err)
	}

	// Check exit code
	inspectResp, err := c.cli.ContainerExecInspect(ctx, execID.ID)
	if err != nil {
		return string(output), fmt.Errorf("failed to inspect exec: %w", err)
	}

	if inspectResp.ExitCode != 0 {
		return string(output), fmt.Errorf("command exited with code %d: %s", inspectResp.ExitCode, string(output))
	}

	return string(output), nil
}

// ContainerCreate creates a new container
func (c *Client) ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *specs.Platform, containerName string) (container.CreateResponse, error) {
	return c.cli.ContainerCreate(ctx, config, hostConfig, networkingConfig, platform, containerName)
}

// ContainerStart starts a container
func (c *Client) ContainerStart(ctx context.Context, containerID string, options types.ContainerStartOptions) error {
	return c.cli.ContainerStart(ctx, containerID, options)
}

// ContainerStop stops a container
func (c *Client) ContainerStop(ctx context.Context, containerID string, timeout *int) error {
	var options container.StopOptions
	if timeout != nil {
		options.Timeout = timeout
	}
	return c.cli.ContainerStop(ctx, containerID, options)
}

// ContainerRemove removes a container
func (c *Client) ContainerRemove(ctx context.Context, containerID string, options types.ContainerRemoveOptions) error {
	return c.cli.ContainerRemove(ctx, containerID, options)
}

// ContainerInspect returns detailed information about a container
func (c *Client) ContainerInspect(ctx context.Context, containerID string) (types.ContainerJSON, error) {
	return c.cli.ContainerInspect(ctx, containerID)
}
