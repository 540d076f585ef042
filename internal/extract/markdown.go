package extract

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"docverify/internal/domain"
)

// MarkdownExtractor recovers command blocks from markdown installation
// docs: fenced code blocks whose info string names one of the configured
// shell languages.
type MarkdownExtractor struct {
	languages map[string]bool
}

// NewMarkdownExtractor creates a MarkdownExtractor for the given fence
// languages.
func NewMarkdownExtractor(languages []string) *MarkdownExtractor {
	set := make(map[string]bool, len(languages))
	for _, l := range languages {
		set[l] = true
	}
	return &MarkdownExtractor{languages: set}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *MarkdownExtractor) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

// Extract walks the goldmark AST and collects matching fenced blocks in
// document order.
func (e *MarkdownExtractor) Extract(name string, content []byte) ([]domain.RawBlock, error) {
	md := goldmark.New()
	reader := text.NewReader(content)
	doc := md.Parser().Parse(reader)

	var blocks []domain.RawBlock
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		node, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		lang := string(node.Language(content))
		if !e.languages[lang] {
			return ast.WalkContinue, nil
		}

		var buf bytes.Buffer
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(content))
		}
		body := strings.TrimRight(buf.String(), "\n")
		if strings.TrimSpace(body) == "" {
			return ast.WalkContinue, nil
		}

		startLine := 1
		endLine := 1
		if lines.Len() > 0 {
			startLine = lineNumber(content, lines.At(0).Start)
			endLine = lineNumber(content, lines.At(lines.Len()-1).Start)
		}
		blocks = append(blocks, domain.RawBlock{
			Text:      body,
			StartLine: startLine,
			EndLine:   endLine,
		})
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, domain.NewError(domain.KindUsage, "extract", name, "failed to walk markdown AST", err)
	}

	return blocks, nil
}

// lineNumber calculates the 1-based line number for a byte offset.
func lineNumber(content []byte, offset int) int {
	return bytes.Count(content[:offset], []byte("\n")) + 1
}
