package config

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"docverify/internal/domain"
)

// Validate checks the Config for required fields and valid values.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Extraction.BlockClass == "" {
		errs = append(errs, "extraction.block_class must not be empty")
	}
	if cfg.Extraction.CopyMarker == "" {
		errs = append(errs, "extraction.copy_marker must not be empty")
	}

	errs = append(errs, checkRules("commands.denylist", cfg.Commands.Denylist)...)
	errs = append(errs, checkRules("validation.required", cfg.Validation.Required)...)
	errs = append(errs, checkRules("validation.danger", cfg.Validation.Danger)...)

	if cfg.Script.Shell == "" {
		errs = append(errs, "script.shell must not be empty")
	}
	if fp := cfg.Script.ExpectedFingerprint; fp != "" && !fingerprintRe.MatchString(fp) {
		errs = append(errs, fmt.Sprintf("script.expected_fingerprint must be 40 hex characters (got %q)", fp))
	}

	if cfg.Sandbox.Image == "" {
		errs = append(errs, "sandbox.image must not be empty")
	}
	if cfg.Sandbox.NamePrefix == "" {
		errs = append(errs, "sandbox.name_prefix must not be empty")
	}
	if cfg.Sandbox.Timeout != "" {
		if _, err := time.ParseDuration(cfg.Sandbox.Timeout); err != nil {
			errs = append(errs, fmt.Sprintf("sandbox.timeout is not a valid duration: %v", err))
		}
	}

	if cfg.Logging.Level != "" {
		validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
		if !validLevels[cfg.Logging.Level] {
			errs = append(errs, fmt.Sprintf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
		}
	}

	if len(errs) > 0 {
		return domain.NewError(domain.KindConfig, "config", "", fmt.Sprintf("validation failed: %s", strings.Join(errs, "; ")), nil)
	}

	return nil
}

var fingerprintRe = regexp.MustCompile(`^[0-9A-Fa-f]{40}$`)

// checkRules verifies each rule has an ID and a compilable pattern.
func checkRules(section string, rules []Rule) []string {
	var errs []string
	for i, r := range rules {
		if r.ID == "" {
			errs = append(errs, fmt.Sprintf("%s[%d].id must not be empty", section, i))
		}
		if r.Pattern == "" {
			errs = append(errs, fmt.Sprintf("%s[%d].pattern must not be empty", section, i))
			continue
		}
		if _, err := regexp.Compile(r.Pattern); err != nil {
			errs = append(errs, fmt.Sprintf("%s[%d].pattern is not a valid regex: %v", section, i, err))
		}
	}
	return errs
}

// ResolveImage maps a codename alias (bullseye, focal, jammy) to a full
// image reference, passing anything else through untouched.
func (c *SandboxConfig) ResolveImage(name string) string {
	if name == "" {
		return c.Image
	}
	if img, ok := c.ImageAliases[name]; ok {
		return img
	}
	return name
}

// RunTimeout parses the configured timeout. Zero means no timeout.
func (c *SandboxConfig) RunTimeout() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0
	}
	return d
}
