// Package sandbox runs assembled installation scripts inside ephemeral
// isolated environments and preserves failure artifacts for inspection.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// ScriptMountPath is where the assembled script appears inside the
// environment.
const ScriptMountPath = "/docverify/install.sh"

// Runtime is the isolated-environment runtime consumed by the Runner. The
// core does not manage image pulls, networking, or volume semantics beyond
// mounting one read-only script file.
type Runtime interface {
	// Launch starts a fresh environment instance from the image with the
	// script mounted read-only, runs the script as the entry process, and
	// blocks until it terminates. A non-nil error means the environment
	// could not be launched at all; a non-zero exit code means the script
	// ran and failed.
	Launch(ctx context.Context, image, scriptPath, name string) (exitCode int, instanceID string, err error)

	// Destroy removes the environment instance.
	Destroy(ctx context.Context, instanceID string) error
}

// DockerCLI implements Runtime over the docker command-line client.
type DockerCLI struct {
	// Shell is the interpreter that runs the mounted script.
	Shell string
	// Stdout and Stderr receive the container's combined output. Nil
	// discards.
	Stdout io.Writer
	Stderr io.Writer
}

// Launch runs `docker run` without --rm so a failed instance survives for
// inspection. The container name doubles as the instance identifier.
func (d *DockerCLI) Launch(ctx context.Context, image, scriptPath, name string) (int, string, error) {
	shell := d.Shell
	if shell == "" {
		shell = "/bin/bash"
	}

	cmd := exec.CommandContext(ctx, "docker", "run",
		"--name", name,
		"-v", fmt.Sprintf("%s:%s:ro", scriptPath, ScriptMountPath),
		image,
		shell, ScriptMountPath,
	)
	cmd.Stdout = d.Stdout
	cmd.Stderr = d.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, name, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		// docker reserves 125 (run failed) and 126 (command not invocable)
		// for containers whose entry process never ran.
		if code == 125 || code == 126 {
			return -1, name, fmt.Errorf("docker could not start the container (status %d)", code)
		}
		return code, name, nil
	}
	return -1, name, fmt.Errorf("failed to start docker: %w", err)
}

// Destroy force-removes the container.
func (d *DockerCLI) Destroy(ctx context.Context, instanceID string) error {
	cmd := exec.CommandContext(ctx, "docker", "rm", "-f", instanceID)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to remove container %s: %s: %w", instanceID, string(out), err)
	}
	return nil
}
