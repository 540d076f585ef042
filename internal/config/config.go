package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"docverify/internal/domain"
)

// Config is the top-level configuration struct, loaded from docverify.yaml.
type Config struct {
	Extraction ExtractionConfig `yaml:"extraction"`
	Commands   CommandConfig    `yaml:"commands"`
	Validation ValidationConfig `yaml:"validation"`
	Script     ScriptConfig     `yaml:"script"`
	Sandbox    SandboxConfig    `yaml:"sandbox"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ExtractionConfig controls how code blocks are recognized in the input.
type ExtractionConfig struct {
	// BlockClass is the class attribute that marks an HTML container as a
	// command block.
	BlockClass string `yaml:"block_class"`
	// CopyMarker is a substring identifying the trailing copy-button tag
	// that terminates a block early.
	CopyMarker string `yaml:"copy_marker"`
	// FenceLanguages lists the fence info strings treated as commands in
	// markdown inputs.
	FenceLanguages []string `yaml:"fence_languages"`
}

// Rule is an (identifier, matcher, message) tuple. Pattern is a regular
// expression matched against a command's text.
type Rule struct {
	ID      string `yaml:"id"`
	Pattern string `yaml:"pattern"`
	Message string `yaml:"message"`
}

// CommandConfig controls normalization of extracted blocks.
type CommandConfig struct {
	// Denylist drops commands that appear in documentation for the
	// reader's information only and are not part of the install path.
	Denylist []Rule `yaml:"denylist"`
}

// ValidationConfig holds the validator's rule tables.
type ValidationConfig struct {
	// Required patterns represent mandatory installation steps; a missing
	// match produces a warning finding.
	Required []Rule `yaml:"required"`
	// Danger patterns produce error findings that block execution.
	Danger []Rule `yaml:"danger"`
}

// ScriptConfig controls script assembly.
type ScriptConfig struct {
	// Shell is the interpreter the assembled script targets.
	Shell string `yaml:"shell"`
	// PrereqPackages are installed by the prologue before any documented
	// command runs.
	PrereqPackages []string `yaml:"prereq_packages"`
	// ExpectedFingerprint is the known-good signing key fingerprint the
	// key-verification block compares against. Empty disables the
	// substitution and key-import commands are emitted verbatim.
	ExpectedFingerprint string `yaml:"expected_fingerprint"`
	// TargetExecutable is probed on PATH by the epilogue (informational).
	TargetExecutable string `yaml:"target_executable"`
	// PackageName filters the epilogue's installed-package listing.
	PackageName string `yaml:"package_name"`
}

// SandboxConfig controls the execution controller.
type SandboxConfig struct {
	// Image is the default base image for the sandbox.
	Image string `yaml:"image"`
	// ImageAliases maps distribution codenames to full image references.
	ImageAliases map[string]string `yaml:"image_aliases"`
	// NamePrefix prefixes the per-run container name.
	NamePrefix string `yaml:"name_prefix"`
	// Timeout bounds the script run, e.g. "20m". Empty means no timeout.
	Timeout string `yaml:"timeout"`
	// ScriptDir is where assembled scripts are materialized. Empty means
	// the system temp directory.
	ScriptDir string `yaml:"script_dir"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML configuration file over the defaults. A missing file
// is not an error; the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, domain.NewError(domain.KindConfig, "config", path, "failed to read config file", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError(domain.KindConfig, "config", path, "failed to parse config file", err)
	}

	return cfg, nil
}
