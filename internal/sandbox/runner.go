package sandbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"docverify/internal/config"
	"docverify/internal/domain"
)

// Runner materializes a script, runs it in a fresh environment instance,
// and applies the outcome policy: clean up everything on success, preserve
// both the script and the instance on failure.
type Runner struct {
	runtime Runtime
	cfg     *config.SandboxConfig
	log     *logrus.Logger
}

// NewRunner creates a Runner.
func NewRunner(runtime Runtime, cfg *config.SandboxConfig, log *logrus.Logger) *Runner {
	return &Runner{runtime: runtime, cfg: cfg, log: log}
}

// Run executes the script in an environment built from image. Each
// invocation uses uniquely named artifacts (derived from the script's run
// identifier), so concurrent invocations and leftovers from previous
// preserved failures cannot collide.
func (r *Runner) Run(ctx context.Context, script *domain.Script, image string) (*domain.ExecutionResult, error) {
	scriptPath, err := r.materialize(script)
	if err != nil {
		return nil, domain.NewError(domain.KindLaunch, "run", "", "failed to materialize script", err)
	}

	name := fmt.Sprintf("%s-%s", r.cfg.NamePrefix, script.RunID)

	runCtx := ctx
	var cancel context.CancelFunc
	if timeout := r.cfg.RunTimeout(); timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	r.log.WithFields(logrus.Fields{
		"image":     image,
		"container": name,
		"script":    scriptPath,
	}).Info("Launching sandboxed installation")

	exitCode, instanceID, launchErr := r.runtime.Launch(runCtx, image, scriptPath, name)

	return r.finalize(ctx, runCtx, scriptPath, instanceID, exitCode, launchErr)
}

// finalize is the single place the preserve-versus-cleanup branch lives.
// Cleanup happens only on the fully successful path; every failure path
// leaves the artifacts in place and reports their identifiers.
func (r *Runner) finalize(ctx, runCtx context.Context, scriptPath, instanceID string, exitCode int, launchErr error) (*domain.ExecutionResult, error) {
	result := &domain.ExecutionResult{
		ExitCode:    exitCode,
		ContainerID: instanceID,
		ScriptPath:  scriptPath,
		Preserved:   true,
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		// Force-terminate the instance so it does not keep running, but
		// keep the script for inspection.
		if err := r.runtime.Destroy(ctx, instanceID); err != nil {
			r.log.Warnf("Failed to remove timed-out container %s: %v", instanceID, err)
		}
		result.ContainerID = ""
		return result, domain.NewError(domain.KindTimeout, "run", "",
			fmt.Sprintf("script exceeded timeout %s; script preserved at %s", r.cfg.Timeout, scriptPath), nil)
	}

	if launchErr != nil {
		return result, domain.NewError(domain.KindLaunch, "run", "", "failed to launch environment", launchErr)
	}

	if exitCode != 0 {
		r.log.Errorf("Installation script failed with exit code %d", exitCode)
		r.log.Errorf("Preserved container: %s", instanceID)
		r.log.Errorf("Preserved script:    %s", scriptPath)
		return result, domain.NewError(domain.KindExecution, "run", "",
			fmt.Sprintf("script exited with code %d (container %s preserved)", exitCode, instanceID), nil)
	}

	if err := r.runtime.Destroy(ctx, instanceID); err != nil {
		r.log.Warnf("Failed to remove container %s: %v", instanceID, err)
	}
	if err := os.Remove(scriptPath); err != nil {
		r.log.Warnf("Failed to remove script %s: %v", scriptPath, err)
	}
	result.Preserved = false
	result.ContainerID = ""
	result.ScriptPath = ""
	return result, nil
}

// materialize writes the script to a uniquely named executable file.
func (r *Runner) materialize(script *domain.Script) (string, error) {
	dir := r.cfg.ScriptDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("docverify-install-%s.sh", script.RunID))
	if err := os.WriteFile(path, []byte(script.Body), 0o700); err != nil {
		return "", err
	}
	return path, nil
}
