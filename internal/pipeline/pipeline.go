// Package pipeline wires the extraction, normalization, validation,
// assembly, and execution stages into one synchronous run per input file.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"docverify/internal/assemble"
	"docverify/internal/domain"
	"docverify/internal/extract"
	"docverify/internal/normalize"
	"docverify/internal/sandbox"
	"docverify/internal/validate"
)

// Options selects what the run does beyond extraction and validation.
type Options struct {
	// Image is the base image for the sandboxed run.
	Image string
	// Execute enables the sandboxed execution stage. When false the run
	// stops after assembly.
	Execute bool
}

// Pipeline holds the five stages. Each invocation of Run is independent;
// no state crosses runs.
type Pipeline struct {
	registry   *extract.Registry
	normalizer *normalize.Normalizer
	validator  *validate.Validator
	assembler  *assemble.Assembler
	runner     *sandbox.Runner
	log        *logrus.Logger
	out        io.Writer
}

// New creates a Pipeline. out receives the user-facing report (command
// listing, findings, verdict); diagnostics go to the logger.
func New(
	registry *extract.Registry,
	normalizer *normalize.Normalizer,
	validator *validate.Validator,
	assembler *assemble.Assembler,
	runner *sandbox.Runner,
	log *logrus.Logger,
	out io.Writer,
) *Pipeline {
	return &Pipeline{
		registry:   registry,
		normalizer: normalizer,
		validator:  validator,
		assembler:  assembler,
		runner:     runner,
		log:        log,
		out:        out,
	}
}

// Run executes the full pipeline over one documentation file. Data flows
// strictly downward; each stage consumes the complete output of the
// previous one.
func (p *Pipeline) Run(ctx context.Context, path string, opts Options) error {
	p.log.WithFields(logrus.Fields{
		"input":   path,
		"image":   opts.Image,
		"execute": opts.Execute,
	}).Info("Verifying installation documentation")

	set, err := p.ExtractCommands(path)
	if err != nil {
		return err
	}
	p.reportCommands(set)

	findings := p.validator.Check(set)
	p.reportFindings(findings)
	if validate.Blocking(findings) {
		return domain.NewError(domain.KindValidation, "validate", path,
			"blocking validation errors; not executing", nil)
	}

	script, err := p.assembler.Assemble(set)
	if err != nil {
		return err
	}
	p.log.Debugf("Assembled script (%d bytes, run %s)", len(script.Body), script.RunID)

	if !opts.Execute {
		fmt.Fprintln(p.out, "Execution disabled; validation passed.")
		return nil
	}

	result, err := p.runner.Run(ctx, script, opts.Image)
	if err != nil {
		if result != nil && result.Preserved {
			fmt.Fprintf(p.out, "FAILED: preserved script: %s", result.ScriptPath)
			if result.ContainerID != "" {
				fmt.Fprintf(p.out, ", container: %s", result.ContainerID)
			}
			fmt.Fprintln(p.out)
		}
		return err
	}

	fmt.Fprintln(p.out, "SUCCESS: documented commands produced a working installation.")
	return nil
}

// ExtractCommands runs the extraction and normalization stages and
// enforces the non-empty contract.
func (p *Pipeline) ExtractCommands(path string) (*domain.CommandSet, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError(domain.KindUsage, "extract", path, "failed to read input file", err)
	}

	extractor, err := p.registry.ExtractorFor(filepath.Ext(path))
	if err != nil {
		return nil, domain.NewError(domain.KindUsage, "extract", path, "unsupported input type", err)
	}

	blocks, err := extractor.Extract(path, content)
	if err != nil {
		return nil, err
	}
	p.log.Debugf("Extracted %d raw block(s)", len(blocks))

	set := p.normalizer.Normalize(blocks)
	if set.Len() == 0 {
		return nil, domain.NewError(domain.KindExtractionEmpty, "extract", path,
			"no commands recoverable from input", nil)
	}
	return set, nil
}

// reportCommands prints the ordered, numbered listing of unique commands.
func (p *Pipeline) reportCommands(set *domain.CommandSet) {
	fmt.Fprintf(p.out, "Extracted %d command(s):\n", set.Len())
	for _, cmd := range set.Commands() {
		text := strings.ReplaceAll(cmd.Text, "\n", "\n     ")
		fmt.Fprintf(p.out, "%3d. %s\n", cmd.Index+1, text)
	}
}

// reportFindings prints the validation summary grouped by severity.
func (p *Pipeline) reportFindings(findings []domain.Finding) {
	if len(findings) == 0 {
		fmt.Fprintln(p.out, "Validation: all checks passed.")
		return
	}
	for _, f := range findings {
		where := ""
		if f.CommandIndex >= 0 {
			where = fmt.Sprintf(" (command #%d)", f.CommandIndex+1)
		}
		fmt.Fprintf(p.out, "Validation %s [%s]%s: %s\n", f.Severity, f.RuleID, where, f.Message)
		if f.Severity == domain.SeverityError {
			p.log.Errorf("%s: %s", f.RuleID, f.Message)
		} else {
			p.log.Warnf("%s: %s", f.RuleID, f.Message)
		}
	}
}
