// Package assemble renders a validated command set into one executable,
// instrumented installation script.
package assemble

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"docverify/internal/config"
	"docverify/internal/domain"
)

// SuccessMarker is the final line the script prints on full success.
const SuccessMarker = "docverify: installation completed successfully"

// stepKind selects how a command is emitted into the script.
type stepKind int

const (
	stepVerbatim stepKind = iota
	stepPrereqNoop
	stepKeyVerify
)

var (
	keyImportRe  = regexp.MustCompile(`\b(gpg\s+--import|apt-key\s+add)\b`)
	keyExtractRe = regexp.MustCompile(`(\b(grep|awk|sed)\b|--with-fingerprint|--fingerprint)`)
	aptInstallRe = regexp.MustCompile(`^(?:sudo\s+)?apt(?:-get)?\s+install\b`)
	keyFileRe    = regexp.MustCompile(`\S+\.asc\b`)
)

// Assembler renders command sets into scripts. Output is deterministic for
// a given set except for the run identifier in the header.
type Assembler struct {
	cfg      *config.ScriptConfig
	prereqs  map[string]bool
	renderer map[stepKind]func(domain.Command) (string, error)
}

// New creates an Assembler from the script configuration.
func New(cfg *config.ScriptConfig) *Assembler {
	prereqs := make(map[string]bool, len(cfg.PrereqPackages))
	for _, p := range cfg.PrereqPackages {
		prereqs[p] = true
	}
	a := &Assembler{cfg: cfg, prereqs: prereqs}
	a.renderer = map[stepKind]func(domain.Command) (string, error){
		stepVerbatim:   a.renderVerbatim,
		stepPrereqNoop: a.renderPrereqNoop,
		stepKeyVerify:  a.renderKeyVerify,
	}
	return a
}

// Assemble renders prologue, one instrumented segment per command, and the
// post-install epilogue. The script aborts on the first failing command
// (strict mode in the prologue); no per-step recovery is added.
func (a *Assembler) Assemble(set *domain.CommandSet) (*domain.Script, error) {
	runID := fmt.Sprintf("%d-%d", os.Getpid(), time.Now().Unix())

	var b strings.Builder

	err := prologueTmpl.Execute(&b, struct {
		Shell   string
		RunID   string
		Prereqs string
	}{a.cfg.Shell, runID, strings.Join(a.cfg.PrereqPackages, " ")})
	if err != nil {
		return nil, domain.NewError(domain.KindAssembly, "assemble", "", "failed to render prologue", err)
	}

	for _, cmd := range set.Commands() {
		err := announceTmpl.Execute(&b, struct {
			Number  int
			Summary string
		}{cmd.Index + 1, announceSummary(cmd.Text)})
		if err != nil {
			return nil, domain.NewCommandError(domain.KindAssembly, "assemble", "", cmd.Index, "failed to render announcement", err)
		}

		segment, err := a.renderer[a.classify(cmd)](cmd)
		if err != nil {
			return nil, domain.NewCommandError(domain.KindAssembly, "assemble", "", cmd.Index, "failed to render step", err)
		}
		b.WriteString(segment)
	}

	err = epilogueTmpl.Execute(&b, struct {
		Target        string
		Package       string
		SuccessMarker string
	}{a.cfg.TargetExecutable, a.cfg.PackageName, SuccessMarker})
	if err != nil {
		return nil, domain.NewError(domain.KindAssembly, "assemble", "", "failed to render epilogue", err)
	}

	return &domain.Script{Body: b.String(), RunID: runID}, nil
}

// classify picks the emission strategy for a command.
func (a *Assembler) classify(cmd domain.Command) stepKind {
	if a.cfg.ExpectedFingerprint != "" &&
		keyImportRe.MatchString(cmd.Text) && keyExtractRe.MatchString(cmd.Text) {
		return stepKeyVerify
	}
	if a.isPrereqInstall(cmd.Text) {
		return stepPrereqNoop
	}
	return stepVerbatim
}

// isPrereqInstall reports whether the command only installs packages the
// prologue already guarantees.
func (a *Assembler) isPrereqInstall(text string) bool {
	if strings.Contains(text, "\n") || !aptInstallRe.MatchString(text) {
		return false
	}
	rest := aptInstallRe.FindString(text)
	fields := strings.Fields(strings.TrimPrefix(text, rest))
	installed := 0
	for _, f := range fields {
		if strings.HasPrefix(f, "-") {
			continue
		}
		if !a.prereqs[f] {
			return false
		}
		installed++
	}
	return installed > 0
}

func (a *Assembler) renderVerbatim(cmd domain.Command) (string, error) {
	return cmd.Text + "\n", nil
}

func (a *Assembler) renderPrereqNoop(cmd domain.Command) (string, error) {
	return fmt.Sprintf("# skipped: prerequisites already installed by prologue (%s)\n", announceSummary(cmd.Text)), nil
}

func (a *Assembler) renderKeyVerify(cmd domain.Command) (string, error) {
	// Prefer a local key file argument over a download URL.
	keyFile := "key.asc"
	for _, m := range keyFileRe.FindAllString(cmd.Text, -1) {
		if !strings.HasPrefix(m, "http") {
			keyFile = m
			break
		}
	}

	var b strings.Builder
	err := keyVerifyTmpl.Execute(&b, struct {
		KeyFile  string
		Expected string
	}{keyFile, a.cfg.ExpectedFingerprint})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// bannerEscaper escapes every character the shell treats specially inside
// double quotes, so banner text is echoed literally rather than expanded.
var bannerEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`$`, `\$`,
	"`", "\\`",
)

// announceSummary renders a command on one line for the step banner:
// newlines flatten to spaces and shell-special characters are escaped so
// the text embeds safely in the generated echo.
func announceSummary(text string) string {
	flat := strings.Join(strings.Fields(strings.ReplaceAll(text, "\n", " ")), " ")
	return bannerEscaper.Replace(flat)
}
