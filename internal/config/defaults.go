package config

// DefaultConfig returns a Config with sensible default values for Debian
// style installation documentation.
func DefaultConfig() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			BlockClass:     "code-block",
			CopyMarker:     "copy-to-clipboard",
			FenceLanguages: []string{"sh", "bash", "shell", "console"},
		},
		Commands: CommandConfig{
			Denylist: []Rule{
				{
					ID:      "distro-query",
					Pattern: `^lsb_release\b`,
					Message: "distribution-name query, informational only",
				},
			},
		},
		Validation: ValidationConfig{
			Required: []Rule{
				{
					ID:      "keyring-tooling",
					Pattern: `\b(gnupg2?|apt-transport-https|ca-certificates)\b`,
					Message: "no command installs the trusted keyring tooling",
				},
				{
					ID:      "fetch-signing-key",
					Pattern: `\b(wget|curl)\b.*\.asc\b`,
					Message: "no command fetches the repository signing key",
				},
				{
					ID:      "import-signing-key",
					Pattern: `\b(apt-key\s+add|gpg\s+--import)\b`,
					Message: "no command imports the repository signing key",
				},
				{
					ID:      "register-source",
					Pattern: `/etc/apt/sources\.list`,
					Message: "no command registers a package source",
				},
				{
					ID:      "package-install",
					Pattern: `\bapt(-get)?\s+install\b`,
					Message: "no command installs via the package manager",
				},
			},
			Danger: []Rule{
				{
					ID:      "recursive-removal",
					Pattern: `\brm\s+(-[A-Za-z]*r[A-Za-z]*f|-[A-Za-z]*f[A-Za-z]*r|-r\s+-f|-f\s+-r)\b`,
					Message: "recursive forced removal",
				},
			},
		},
		Script: ScriptConfig{
			Shell: "/bin/bash",
			PrereqPackages: []string{
				"curl",
				"wget",
				"gnupg2",
				"ca-certificates",
				"apt-transport-https",
			},
			ExpectedFingerprint: "D27F0A5B4C1E9F38A662D7506AEE30C1B6737F12",
			TargetExecutable:    "mina",
			PackageName:         "mina",
		},
		Sandbox: SandboxConfig{
			Image: "debian:bullseye",
			ImageAliases: map[string]string{
				"bullseye": "debian:bullseye",
				"focal":    "ubuntu:20.04",
				"jammy":    "ubuntu:22.04",
			},
			NamePrefix: "docverify",
			Timeout:    "30m",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
