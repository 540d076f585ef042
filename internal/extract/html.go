package extract

import (
	"fmt"
	"regexp"
	"strings"

	"docverify/internal/domain"
)

// scanState is the extractor's position relative to a command block.
type scanState int

const (
	stateOutside scanState = iota
	stateInside
)

// HTMLExtractor scans rendered documentation pages for command blocks. A
// block opens with a container tag carrying a designated class attribute
// and ends at either the matching close tag or an embedded copy-button
// marker, whichever comes first. No DOM is built; the scan is line
// oriented.
type HTMLExtractor struct {
	openRe     *regexp.Regexp
	copyMarker string
}

// NewHTMLExtractor creates an HTMLExtractor for the given block class and
// copy-button marker substring.
func NewHTMLExtractor(blockClass, copyMarker string) (*HTMLExtractor, error) {
	// The class attribute may carry extra classes in any order; match the
	// block class as one whitespace-separated token.
	pattern := fmt.Sprintf(
		`<([A-Za-z][A-Za-z0-9]*)\b[^>]*class="[^"]*\b%s\b[^"]*"[^>]*>`,
		regexp.QuoteMeta(blockClass),
	)
	openRe, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid block class %q: %w", blockClass, err)
	}
	return &HTMLExtractor{openRe: openRe, copyMarker: copyMarker}, nil
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *HTMLExtractor) SupportedExtensions() []string {
	return []string{".html", ".htm"}
}

// Extract runs the two-state scan over the document. An unterminated block
// at end of stream is discarded without error.
func (e *HTMLExtractor) Extract(name string, content []byte) ([]domain.RawBlock, error) {
	var blocks []domain.RawBlock

	state := stateOutside
	var buf []string
	var openTag string
	startLine := 0

	emit := func(endLine int) {
		text := strings.Join(buf, "\n")
		if strings.TrimSpace(text) != "" {
			blocks = append(blocks, domain.RawBlock{
				Text:      text,
				StartLine: startLine,
				EndLine:   endLine,
			})
		}
		buf = nil
		state = stateOutside
	}

	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		lineNo := i + 1

		if state == stateOutside {
			loc := e.openRe.FindStringSubmatchIndex(line)
			if loc == nil {
				continue
			}
			openTag = line[loc[2]:loc[3]]
			startLine = lineNo
			state = stateInside
			buf = nil

			// Trailing same-line content starts the buffer; it may also
			// already carry a terminator.
			rest := line[loc[1]:]
			if rest == "" {
				continue
			}
			if done := e.consume(rest, &buf, openTag); done {
				emit(lineNo)
			}
			continue
		}

		if done := e.consume(line, &buf, openTag); done {
			emit(lineNo)
		}
	}

	// Unterminated block: malformed markup, drop the buffer.
	return blocks, nil
}

// consume appends one line of INSIDE content to the buffer, honoring both
// terminators. It reports whether the block ended on this line.
func (e *HTMLExtractor) consume(line string, buf *[]string, openTag string) bool {
	closeMarker := "</" + openTag + ">"

	copyIdx := -1
	if e.copyMarker != "" {
		copyIdx = strings.Index(line, e.copyMarker)
	}
	closeIdx := strings.Index(line, closeMarker)

	switch {
	case copyIdx >= 0 && (closeIdx < 0 || copyIdx < closeIdx):
		// Copy-button marker: keep what precedes the marker's tag on this
		// line, discard the rest.
		head := line[:copyIdx]
		if tagStart := strings.LastIndex(head, "<"); tagStart >= 0 {
			head = head[:tagStart]
		}
		if head != "" {
			*buf = append(*buf, head)
		}
		return true
	case closeIdx >= 0:
		if head := line[:closeIdx]; head != "" {
			*buf = append(*buf, head)
		}
		return true
	default:
		*buf = append(*buf, line)
		return false
	}
}
