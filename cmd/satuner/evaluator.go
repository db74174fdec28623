package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh"

	"github.com/jihwankim/satuner/pkg/discovery/docker"
	"github.com/jihwankim/satuner/pkg/energy"
	"github.com/jihwankim/satuner/pkg/evalsvc/agent"
	evaldocker "github.com/jihwankim/satuner/pkg/evalsvc/docker"
	"github.com/jihwankim/satuner/pkg/evalsvc/local"
	"github.com/jihwankim/satuner/pkg/evalsvc/remote"
	"github.com/jihwankim/satuner/pkg/paramspace"
	"github.com/jihwankim/satuner/pkg/reporting"
)

func registerEvaluatorFlags(cmd *cobra.Command) {
	cmd.Flags().String("evaluator", "local", "evaluation backend: local, docker, remote, agent")
	cmd.Flags().String("command", "", "benchmark command (local/remote)")
	cmd.Flags().String("image", "", "target container image (docker)")
	cmd.Flags().String("container-name", "", "container name to discover (docker, reserved for future use)")
	cmd.Flags().String("addr", "", "target address (remote ssh host:port, agent websocket URL)")
	cmd.Flags().String("ssh-user", "", "SSH username (remote)")
	cmd.Flags().String("ssh-key", "", "path to an SSH private key (remote)")
	cmd.Flags().String("env-prefix", "TUNE_", "environment variable prefix for state parameters")
	cmd.Flags().Int("niceness", 0, "renice the benchmark process to this value (docker evaluator; 0 disables)")
	cmd.Flags().String("process-pattern", "", "pgrep pattern identifying the benchmark process to renice (docker evaluator)")
	cmd.Flags().Bool("kill-on-teardown", false, "SIGKILL instead of a graceful stop when tearing a container down (docker evaluator)")
}

func buildEvaluator(cmd *cobra.Command, catalog *paramspace.Catalog, logger *reporting.Logger) (energy.Evaluator, error) {
	kind, _ := cmd.Flags().GetString("evaluator")
	envPrefix, _ := cmd.Flags().GetString("env-prefix")
	command, _ := cmd.Flags().GetString("command")
	addr, _ := cmd.Flags().GetString("addr")

	switch kind {
	case "local":
		if command == "" {
			return nil, fmt.Errorf("--command is required for the local evaluator")
		}
		parts := strings.Fields(command)
		return local.New(local.Config{
			Command:   parts[0],
			Args:      parts[1:],
			EnvPrefix: envPrefix,
			Logger:    logger,
		}), nil

	case "docker":
		image, _ := cmd.Flags().GetString("image")
		if image == "" {
			return nil, fmt.Errorf("--image is required for the docker evaluator")
		}
		if command == "" {
			return nil, fmt.Errorf("--command is required for the docker evaluator")
		}
		cli, err := docker.New()
		if err != nil {
			return nil, fmt.Errorf("creating docker client: %w", err)
		}
		niceness, _ := cmd.Flags().GetInt("niceness")
		processPattern, _ := cmd.Flags().GetString("process-pattern")
		killOnTeardown, _ := cmd.Flags().GetBool("kill-on-teardown")
		return evaldocker.New(evaldocker.Config{
			Client:         cli,
			Image:          image,
			EnvPrefix:      envPrefix,
			BenchmarkCmd:   strings.Fields(command),
			Niceness:       niceness,
			ProcessPattern: processPattern,
			KillOnTeardown: killOnTeardown,
			Logger:         logger,
		}), nil

	case "remote":
		if addr == "" {
			return nil, fmt.Errorf("--addr is required for the remote evaluator")
		}
		if command == "" {
			return nil, fmt.Errorf("--command is required for the remote evaluator")
		}
		user, _ := cmd.Flags().GetString("ssh-user")
		keyPath, _ := cmd.Flags().GetString("ssh-key")
		clientConf, err := sshClientConfig(user, keyPath)
		if err != nil {
			return nil, err
		}
		return remote.New(remote.Config{
			Addr:       addr,
			ClientConf: clientConf,
			Command:    command,
			EnvPrefix:  envPrefix,
			Logger:     logger,
		}), nil

	case "agent":
		if addr == "" {
			return nil, fmt.Errorf("--addr is required for the agent evaluator")
		}
		return agent.New(agent.Config{URL: addr, Logger: logger}, catalog), nil

	default:
		return nil, fmt.Errorf("unknown evaluator backend %q", kind)
	}
}

func sshClientConfig(user, keyPath string) (*ssh.ClientConfig, error) {
	if user == "" {
		return nil, fmt.Errorf("--ssh-user is required for the remote evaluator")
	}
	if keyPath == "" {
		return nil, fmt.Errorf("--ssh-key is required for the remote evaluator")
	}
	signer, err := loadSigner(keyPath)
	if err != nil {
		return nil, fmt.Errorf("loading SSH key %s: %w", keyPath, err)
	}
	return &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         10 * time.Second,
	}, nil
}
