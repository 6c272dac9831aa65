// Package console is the line-oriented terminal dialogue with the operator.
//
// Every prompt reads one line. Yes/no answers are matched against a fixed
// word set after trimming surrounding whitespace; anything else is a no.
// Span answers are taken verbatim apart from the line ending. End of input is
// reported as ErrInputClosed and is not retried.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/constructicon/internal/annotation"
	"github.com/roach88/constructicon/internal/catalog"
	"github.com/roach88/constructicon/internal/record"
)

// ErrInputClosed is returned by every prompt once input is exhausted.
var ErrInputClosed = errors.New("operator input closed")

// Affirmative answers. The manual-connector prompt also takes "Yes".
var (
	acceptWords = map[string]bool{"y": true, "yes": true, "Y": true}
	manualWords = map[string]bool{"y": true, "yes": true, "Yes": true, "Y": true}
)

// ColorMode selects when highlighting escape codes are emitted.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

// ParseColorMode accepts "auto", "always" and "never".
func ParseColorMode(s string) (ColorMode, error) {
	switch s {
	case "auto", "":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return ColorAuto, fmt.Errorf("invalid color mode %q (use auto, always or never)", s)
	}
}

// Console implements session.Operator over a reader and a writer.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	mode   ColorMode
	wrap   int
	styles styles
}

type styles struct {
	candidate lipgloss.Style
	verified  lipgloss.Style
	rejected  lipgloss.Style
	heading   lipgloss.Style
	muted     lipgloss.Style
	wrap      lipgloss.Style
}

// Option configures a Console.
type Option func(*Console)

// WithColor sets the color mode. Default ColorAuto: color only when out is a
// terminal.
func WithColor(mode ColorMode) Option {
	return func(c *Console) {
		c.mode = mode
	}
}

// WithWrap wraps record text at width columns. 0 disables wrapping.
func WithWrap(width int) Option {
	return func(c *Console) {
		c.wrap = width
	}
}

// New creates a Console reading answers from in and writing to out.
func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		in:  bufio.NewReader(in),
		out: out,
	}
	for _, opt := range opts {
		opt(c)
	}

	r := lipgloss.NewRenderer(out)
	switch {
	case c.mode == ColorNever:
		r.SetColorProfile(termenv.Ascii)
	case c.mode == ColorAlways:
		r.SetColorProfile(termenv.ANSI)
	case !isTerminal(out):
		r.SetColorProfile(termenv.Ascii)
	}

	c.styles = styles{
		candidate: r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		verified:  r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		rejected:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		heading:   r.NewStyle().Bold(true),
		muted:     r.NewStyle().Faint(true),
		wrap:      r.NewStyle().Width(c.wrap),
	}
	return c
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Notify prints one line of session status.
func (c *Console) Notify(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\n", args...)
}

// ShowRecord prints the record header and text.
func (c *Console) ShowRecord(index, total int, r record.Record) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, c.styles.heading.Render(fmt.Sprintf("Record %d/%d (ID %d)", index+1, total, r.ID)))
	fmt.Fprintln(c.out, c.text(r.Text))
}

// ShowCandidate prints the text with the trigger highlighted and the pattern
// that surfaced it.
func (c *Console) ShowCandidate(r record.Record, m catalog.Match) {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, c.text(highlight(r.Text, m.Start, m.End, c.styles.candidate)))
	fmt.Fprintf(c.out, "Pattern: %s\n", m.Pattern.Description)
	fmt.Fprintf(c.out, "Construction: %s\n", m.ConstructionID())
	fmt.Fprintf(c.out, "Trigger: %s\n", m.Trigger)
}

// ShowVerdict repeats the highlight in the verdict's color.
func (c *Console) ShowVerdict(r record.Record, m catalog.Match, status annotation.Status) {
	style := c.styles.rejected
	if status == annotation.StatusVerified {
		style = c.styles.verified
	}
	fmt.Fprintf(c.out, "%s %s\n",
		c.text(highlight(r.Text, m.Start, m.End, style)),
		c.styles.muted.Render("["+status.String()+"]"))
}

// ShowManual echoes an operator-entered annotation. The trigger is
// highlighted at its first occurrence in the text, if it occurs at all.
func (c *Console) ShowManual(r record.Record, e annotation.Entry) {
	text := r.Text
	if span, ok := annotation.Locate(r.Text, e.Trigger); ok {
		text = highlight(r.Text, span.Start, span.End, c.styles.verified)
	}
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, c.text(text))
	fmt.Fprintln(c.out, "Manual annotation recorded.")
	fmt.Fprintf(c.out, "Record ID: %d\n", e.RecordID)
	fmt.Fprintf(c.out, "Construction ID: %s\n", e.ConstructionID)
	fmt.Fprintf(c.out, "Trigger: %s\n", e.Trigger)
	fmt.Fprintf(c.out, "Cause: %s\n", e.Cause)
	fmt.Fprintf(c.out, "Effect: %s\n", e.Effect)
	fmt.Fprintf(c.out, "Parse method: %s\n", e.ParseMethod)
}

// ConfirmCandidate asks whether to accept the candidate just shown.
func (c *Console) ConfirmCandidate() (bool, error) {
	return c.askYesNo("Accept this match? (y/n): ", acceptWords)
}

// AskSpan asks for a free-form span.
func (c *Console) AskSpan(f annotation.Field) (string, error) {
	fmt.Fprintf(c.out, "Enter %s: ", f)
	line, err := c.readLine()
	if err != nil {
		return "", fmt.Errorf("ask %s: %w", f, err)
	}
	return norm.NFC.String(line), nil
}

// MoreConnectors asks whether the record holds connectors the catalog missed.
func (c *Console) MoreConnectors() (bool, error) {
	return c.askYesNo("Are there any other causal connectors in this record? (y/n): ", manualWords)
}

// ChooseParseMethod presents the parse-method menu and re-prompts until the
// answer is A, B or C.
func (c *Console) ChooseParseMethod() (catalog.ParseMethod, error) {
	fmt.Fprintln(c.out, "Parse method:")
	fmt.Fprintln(c.out, "  A) FullAuto")
	fmt.Fprintln(c.out, "  B) SemiAuto")
	fmt.Fprintln(c.out, "  C) Manual")
	fmt.Fprint(c.out, "Choose A, B, or C: ")

	for {
		line, err := c.readLine()
		if err != nil {
			return catalog.ParseMethodUnknown, fmt.Errorf("ask parse method: %w", err)
		}
		switch strings.ToUpper(strings.TrimSpace(line)) {
		case "A":
			return catalog.ParseMethodFullAuto, nil
		case "B":
			return catalog.ParseMethodSemiAuto, nil
		case "C":
			return catalog.ParseMethodManual, nil
		}
		fmt.Fprint(c.out, "Invalid choice. Please enter A, B, or C: ")
	}
}

// ContinueSession asks whether to go on to the next record.
func (c *Console) ContinueSession() (bool, error) {
	return c.askYesNo("Continue to next record? (y/n): ", acceptWords)
}

func (c *Console) askYesNo(prompt string, yes map[string]bool) (bool, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.readLine()
	if err != nil {
		return false, fmt.Errorf("ask %q: %w", strings.TrimSuffix(prompt, ": "), err)
	}
	return yes[strings.TrimSpace(line)], nil
}

// readLine returns the next line without its line ending. A final line with
// no newline is still returned; only a read with no data is ErrInputClosed.
func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if err != io.EOF {
			return "", fmt.Errorf("read operator input: %w", err)
		}
		if line == "" {
			return "", ErrInputClosed
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *Console) text(s string) string {
	if c.wrap <= 0 {
		return s
	}
	return c.styles.wrap.Render(s)
}

func highlight(text string, start, end int, style lipgloss.Style) string {
	if start < 0 || end > len(text) || start >= end {
		return text
	}
	return text[:start] + style.Render(text[start:end]) + text[end:]
}
