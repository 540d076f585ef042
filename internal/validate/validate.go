// Package validate checks a command set for required installation steps,
// dangerous constructs, and shell well-formedness. It never mutates the
// set and never blocks the pipeline by itself; callers decide whether
// findings are fatal.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"mvdan.cc/sh/v3/syntax"

	"docverify/internal/config"
	"docverify/internal/domain"
)

// rule is a compiled (identifier, matcher, message) tuple.
type rule struct {
	id      string
	re      *regexp.Regexp
	message string
}

// Validator holds the compiled rule tables.
type Validator struct {
	required []rule
	danger   []rule
	parser   *syntax.Parser
}

// New compiles the configured rule tables into a Validator.
func New(cfg *config.ValidationConfig) (*Validator, error) {
	v := &Validator{parser: syntax.NewParser(syntax.Variant(syntax.LangBash))}

	var err error
	if v.required, err = compileRules(cfg.Required); err != nil {
		return nil, err
	}
	if v.danger, err = compileRules(cfg.Danger); err != nil {
		return nil, err
	}
	return v, nil
}

func compileRules(rules []config.Rule) ([]rule, error) {
	out := make([]rule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", r.ID, err)
		}
		out = append(out, rule{id: r.ID, re: re, message: r.Message})
	}
	return out, nil
}

// Check runs all rule categories over the set and returns the accumulated
// findings. Required-pattern coverage is assessed globally; danger and
// syntax checks are per command.
func (v *Validator) Check(set *domain.CommandSet) []domain.Finding {
	var findings []domain.Finding

	for _, r := range v.required {
		matched := false
		for _, cmd := range set.Commands() {
			if r.re.MatchString(cmd.Text) {
				matched = true
				break
			}
		}
		if !matched {
			findings = append(findings, domain.Finding{
				Severity:     domain.SeverityWarning,
				RuleID:       r.id,
				Message:      r.message,
				CommandIndex: -1,
			})
		}
	}

	for _, cmd := range set.Commands() {
		for _, r := range v.danger {
			if r.re.MatchString(cmd.Text) {
				findings = append(findings, domain.Finding{
					Severity:     domain.SeverityError,
					RuleID:       r.id,
					Message:      r.message,
					CommandIndex: cmd.Index,
				})
			}
		}

		if err := v.parseCheck(cmd.Text); err != nil {
			findings = append(findings, domain.Finding{
				Severity:     domain.SeverityError,
				RuleID:       "shell-syntax",
				Message:      fmt.Sprintf("command does not parse as shell: %v", err),
				CommandIndex: cmd.Index,
			})
		}
	}

	return findings
}

// parseCheck parses the command as a standalone script.
func (v *Validator) parseCheck(command string) error {
	script := "#!/bin/bash\n" + command + "\n"
	_, err := v.parser.Parse(strings.NewReader(script), "")
	return err
}

// Blocking reports whether any finding is error severity.
func Blocking(findings []domain.Finding) bool {
	for _, f := range findings {
		if f.Severity == domain.SeverityError {
			return true
		}
	}
	return false
}
