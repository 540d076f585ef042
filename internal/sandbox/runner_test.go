package sandbox_test

import (
	"context"
	"errors"
	"io"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"docverify/internal/config"
	"docverify/internal/domain"
	"docverify/internal/sandbox"
)

// fakeRuntime records Launch/Destroy calls and plays back a scripted
// outcome.
type fakeRuntime struct {
	exitCode  int
	launchErr error
	waitCtx   bool // block until the context expires

	launched  []string
	destroyed []string
}

func (f *fakeRuntime) Launch(ctx context.Context, image, scriptPath, name string) (int, string, error) {
	f.launched = append(f.launched, name)
	if f.waitCtx {
		<-ctx.Done()
		return -1, name, ctx.Err()
	}
	return f.exitCode, name, f.launchErr
}

func (f *fakeRuntime) Destroy(ctx context.Context, instanceID string) error {
	f.destroyed = append(f.destroyed, instanceID)
	return nil
}

var _ = Describe("Runner", func() {
	var (
		rt     *fakeRuntime
		cfg    *config.SandboxConfig
		runner *sandbox.Runner
		script *domain.Script
		log    *logrus.Logger
	)

	BeforeEach(func() {
		rt = &fakeRuntime{}
		cfg = &config.SandboxConfig{
			Image:      "debian:bullseye",
			NamePrefix: "docverify-test",
			ScriptDir:  GinkgoT().TempDir(),
		}
		log = logrus.New()
		log.SetOutput(io.Discard)
		runner = sandbox.NewRunner(rt, cfg, log)
		script = &domain.Script{Body: "#!/bin/bash\necho ok\n", RunID: "42-1700000000"}
	})

	Describe("successful run", func() {
		It("should destroy the container and delete the script", func() {
			result, err := runner.Run(context.Background(), script, "debian:bullseye")
			Expect(err).ToNot(HaveOccurred())

			Expect(result.Preserved).To(BeFalse())
			Expect(result.ExitCode).To(Equal(0))
			Expect(result.ContainerID).To(BeEmpty())
			Expect(result.ScriptPath).To(BeEmpty())

			Expect(rt.destroyed).To(HaveLen(1))
			entries, err := os.ReadDir(cfg.ScriptDir)
			Expect(err).ToNot(HaveOccurred())
			Expect(entries).To(BeEmpty())
		})
	})

	Describe("failed run", func() {
		BeforeEach(func() {
			rt.exitCode = 1
		})

		It("should preserve the container and the script and report them", func() {
			result, err := runner.Run(context.Background(), script, "debian:bullseye")
			Expect(err).To(HaveOccurred())

			var verr *domain.VerifyError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Kind).To(Equal(domain.KindExecution))

			Expect(result.Preserved).To(BeTrue())
			Expect(result.ExitCode).To(Equal(1))
			Expect(result.ContainerID).To(Equal("docverify-test-42-1700000000"))
			Expect(result.ScriptPath).To(BeARegularFile())
			Expect(rt.destroyed).To(BeEmpty())
		})
	})

	Describe("launch failure", func() {
		BeforeEach(func() {
			rt.exitCode = -1
			rt.launchErr = errors.New("docker daemon not running")
		})

		It("should report a launch error and preserve the script", func() {
			result, err := runner.Run(context.Background(), script, "debian:bullseye")
			Expect(err).To(HaveOccurred())

			var verr *domain.VerifyError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Kind).To(Equal(domain.KindLaunch))
			Expect(result.ScriptPath).To(BeARegularFile())
		})
	})

	Describe("timeout", func() {
		BeforeEach(func() {
			rt.waitCtx = true
			cfg.Timeout = "30ms"
		})

		It("should force-terminate the container and report a timeout", func() {
			result, err := runner.Run(context.Background(), script, "debian:bullseye")
			Expect(err).To(HaveOccurred())

			var verr *domain.VerifyError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Kind).To(Equal(domain.KindTimeout))

			Expect(rt.destroyed).To(HaveLen(1))
			Expect(result.ScriptPath).To(BeARegularFile())
		})
	})

	Describe("instance naming", func() {
		It("should derive a fresh container name from the run identifier", func() {
			_, err := runner.Run(context.Background(), script, "debian:bullseye")
			Expect(err).ToNot(HaveOccurred())

			other := &domain.Script{Body: script.Body, RunID: "42-1700000001"}
			_, err = runner.Run(context.Background(), other, "debian:bullseye")
			Expect(err).ToNot(HaveOccurred())

			Expect(rt.launched).To(HaveLen(2))
			Expect(rt.launched[0]).ToNot(Equal(rt.launched[1]))
		})
	})
})
