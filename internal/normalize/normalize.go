// Package normalize turns raw extracted blocks into a clean, ordered,
// deduplicated command set.
package normalize

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"docverify/internal/config"
	"docverify/internal/domain"
)

// markupTagRe matches a literal (unescaped) markup tag left over in a
// block. A block containing one is a parsing artifact, not a command.
var markupTagRe = regexp.MustCompile(`</?[A-Za-z][^>]*>`)

// Normalizer cleans and deduplicates raw blocks. Denylisted commands are
// informational-only steps that are dropped silently.
type Normalizer struct {
	denylist []denyRule
}

type denyRule struct {
	id string
	re *regexp.Regexp
}

// New creates a Normalizer from the configured denylist. Patterns must
// already be validated by config.Validate.
func New(cfg *config.CommandConfig) (*Normalizer, error) {
	n := &Normalizer{}
	for _, r := range cfg.Denylist {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("denylist rule %q: %w", r.ID, err)
		}
		n.denylist = append(n.denylist, denyRule{id: r.ID, re: re})
	}
	return n, nil
}

// Normalize cleans each block, filters artifacts and denylisted commands,
// and keeps the first occurrence of each distinct command text in original
// order. The returned set may be empty; callers decide whether that is
// fatal.
func (n *Normalizer) Normalize(blocks []domain.RawBlock) *domain.CommandSet {
	set := &domain.CommandSet{}
	seen := make(map[string]bool)

	for origin, block := range blocks {
		text, ok := n.clean(block.Text)
		if !ok {
			continue
		}
		if seen[text] {
			continue
		}
		seen[text] = true
		set.Add(text, origin)
	}

	return set
}

// clean produces the canonical command text for a block, or ok=false if
// the block is not a real command.
func (n *Normalizer) clean(raw string) (string, bool) {
	// A literal tag in the block signals an extraction artifact. This
	// check runs before entity decoding so that escaped text like
	// "&lt;a&gt;" survives as the command content "<a>".
	if markupTagRe.MatchString(raw) {
		return "", false
	}

	text := html.UnescapeString(raw)

	// Trim each line's trailing whitespace and the block's surrounding
	// blank lines.
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r")
	}
	text = strings.TrimSpace(strings.Join(lines, "\n"))

	if text == "" {
		return "", false
	}
	if !legalCommandStart(text) {
		return "", false
	}
	for _, rule := range n.denylist {
		if rule.re.MatchString(text) {
			return "", false
		}
	}
	return text, true
}

// legalCommandStart reports whether the first character can begin a shell
// command. Alphanumerics cover program names and environment-variable
// assignments; the rest are path, home, expansion, and quoting starters.
// Stray punctuation from markup remnants fails here.
func legalCommandStart(text string) bool {
	c := rune(text[0])
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '/', c == '.', c == '~', c == '_', c == '$', c == '"', c == '\'':
		return true
	default:
		return false
	}
}
