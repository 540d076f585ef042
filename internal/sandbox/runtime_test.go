package sandbox_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"docverify/internal/sandbox"
)

var _ = Describe("DockerCLI", func() {
	var (
		shimDir string
		cli     *sandbox.DockerCLI
	)

	// writeShim puts a fake docker on PATH that exits with the given
	// status.
	writeShim := func(status int) {
		shim := fmt.Sprintf("#!/bin/sh\nexit %d\n", status)
		Expect(os.WriteFile(filepath.Join(shimDir, "docker"), []byte(shim), 0o755)).To(Succeed())
	}

	BeforeEach(func() {
		shimDir = GinkgoT().TempDir()
		GinkgoT().Setenv("PATH", shimDir+string(os.PathListSeparator)+os.Getenv("PATH"))
		cli = &sandbox.DockerCLI{}
	})

	It("should pass a script exit status through without error", func() {
		writeShim(3)
		code, id, err := cli.Launch(context.Background(), "debian:bullseye", "/tmp/install.sh", "docverify-x")
		Expect(err).ToNot(HaveOccurred())
		Expect(code).To(Equal(3))
		Expect(id).To(Equal("docverify-x"))
	})

	It("should report a zero status as success", func() {
		writeShim(0)
		code, _, err := cli.Launch(context.Background(), "debian:bullseye", "/tmp/install.sh", "docverify-x")
		Expect(err).ToNot(HaveOccurred())
		Expect(code).To(Equal(0))
	})

	It("should report docker's own run statuses as launch failures", func() {
		writeShim(125)
		_, _, err := cli.Launch(context.Background(), "no-such-image:latest", "/tmp/install.sh", "docverify-x")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("could not start the container"))
	})

	It("should treat a non-invocable entry process as a launch failure", func() {
		writeShim(126)
		_, _, err := cli.Launch(context.Background(), "debian:bullseye", "/tmp/install.sh", "docverify-x")
		Expect(err).To(HaveOccurred())
	})
})
