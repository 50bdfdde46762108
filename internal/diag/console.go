package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"vera/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

// Console is a counting sink that additionally renders every recorded
// diagnostic to an output stream.
type Console struct {
	*Counting
	files *source.FileSet
	out   io.Writer
	plain bool
}

// NewConsole creates a console reporter writing to out. Positions are
// resolved against files; plain disables color output.
func NewConsole(opts *Options, files *source.FileSet, out io.Writer, plain bool) *Console {
	return &Console{
		Counting: NewCounting(opts),
		files:    files,
		out:      out,
		plain:    plain,
	}
}

// Report records the diagnostic and writes its rendering. A diagnostic
// dropped by the cap is not rendered either.
func (c *Console) Report(d Diagnostic) bool {
	d = escalate(c.Counting.opts, d)
	if !c.Counting.record(d) {
		return false
	}
	fmt.Fprintln(c.out, c.render(d))
	return true
}

// render produces "<location>: <severity>: <message>" followed by the
// nested-location suffixes. Continuation lines of a multi-line message are
// indented by one space so line-oriented consumers can segment messages.
func (c *Console) render(d Diagnostic) string {
	var sb strings.Builder

	sb.WriteString(c.files.Position(d.Loc.Span))
	sb.WriteString(": ")
	sb.WriteString(c.severityLabel(d.Severity))
	sb.WriteString(": ")

	msg := d.Message
	if c.Counting.opts.Verbose && d.Code != CodeNone {
		if text, ok := Explain(d.Code); ok {
			msg += "\n" + text
		}
	}
	sb.WriteString(strings.ReplaceAll(msg, "\n", "\n "))

	c.appendChain(&sb, d.Loc)
	for _, note := range d.Related {
		sb.WriteString("\n ")
		sb.WriteString(c.files.Position(note.Loc.Span))
		sb.WriteString(": ")
		sb.WriteString(strings.ReplaceAll(note.Msg, "\n", "\n "))
	}
	return sb.String()
}

// appendChain walks a nested location outward, appending one
// "<related-message> <location>" suffix per distinct position. Consecutive
// identical positions along the chain collapse into one entry.
func (c *Console) appendChain(sb *strings.Builder, loc source.Loc) {
	prev := c.files.Position(loc.Span)
	cur := loc.Inner
	for cur != nil {
		pos := c.files.Position(cur.Span)
		if pos != prev {
			sb.WriteString(" ")
			if cur.Msg != "" {
				sb.WriteString(cur.Msg)
				sb.WriteString(" ")
			}
			sb.WriteString(pos)
			prev = pos
		}
		cur = cur.Inner
	}
}

func (c *Console) severityLabel(sev Severity) string {
	if c.plain {
		return sev.String()
	}
	switch sev {
	case SevError:
		return errorColor.Sprint(sev.String())
	case SevWarning:
		return warningColor.Sprint(sev.String())
	default:
		return infoColor.Sprint(sev.String())
	}
}
