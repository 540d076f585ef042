package domain

// RawBlock is an opaque text span captured between a block-open marker and
// a terminating marker in the source document. It is consumed exactly once
// by the normalizer and not retained afterward.
type RawBlock struct {
	Text      string
	StartLine int // 1-based line of the open marker
	EndLine   int // 1-based line of the terminator (or last buffered line)
}

// Command is a cleaned, orderable unit of shell text derived from a block.
type Command struct {
	Text   string // possibly multi-line, trimmed, unique within a set
	Index  int    // stable insertion order, 0-based
	Origin int    // index of the RawBlock it came from
}

// CommandSet is an ordered sequence of unique Commands for one pipeline
// run. It is immutable once validation begins; the normalizer is the only
// writer.
type CommandSet struct {
	commands []Command
}

// Add appends a command with the next order index. The caller is
// responsible for deduplication; Add does not check uniqueness.
func (s *CommandSet) Add(text string, origin int) Command {
	cmd := Command{Text: text, Index: len(s.commands), Origin: origin}
	s.commands = append(s.commands, cmd)
	return cmd
}

// Len returns the number of commands in the set.
func (s *CommandSet) Len() int { return len(s.commands) }

// At returns the command at the given order index.
func (s *CommandSet) At(i int) Command { return s.commands[i] }

// Commands returns the commands in order. The returned slice is shared;
// callers must not modify it.
func (s *CommandSet) Commands() []Command { return s.commands }

// Severity classifies a validation finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Finding is a single validation result. CommandIndex is -1 when the
// finding applies to the set as a whole rather than to one command.
type Finding struct {
	Severity     Severity
	RuleID       string
	Message      string
	CommandIndex int
}

// Script is the assembled installation script. Body is the full script
// text; RunID is the only run-varying part of the output.
type Script struct {
	Body  string
	RunID string
}

// ExecutionResult is the terminal artifact of a sandboxed run. When
// Preserved is true the container and script file outlive the process for
// manual inspection.
type ExecutionResult struct {
	ExitCode    int
	ContainerID string
	ScriptPath  string
	Preserved   bool
}
