// Package output renders provisioning outcomes for operators.
//
// Three modes: text (styled status lines), plain (the same lines without
// styling), and json (machine-readable). The auto mode picks text on a TTY
// and plain otherwise. Only the outcome classification is load-bearing; the
// wording of the status lines is not.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/dbprime/pkg/core"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects the output format.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeText  Mode = "text"
	ModePlain Mode = "plain"
	ModeJSON  Mode = "json"
)

// Renderer writes provisioning reports to an output stream.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	styles *Styles
}

// NewRenderer creates a renderer for the given writers and mode.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	r := &Renderer{
		out:    out,
		errOut: errOut,
		mode:   resolveMode(mode),
		styles: DefaultStyles(),
	}
	if termenv.EnvNoColor() {
		r.styles = PlainStyles()
	}
	return r
}

// resolveMode maps auto onto text or plain depending on whether stdout is a
// terminal.
func resolveMode(mode Mode) Mode {
	if mode != ModeAuto && mode != "" {
		return mode
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeText
	}
	return ModePlain
}

// Mode returns the resolved output mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

// statusSymbol returns the marker for a status line.
func statusSymbol(s core.Status) string {
	switch s {
	case core.StatusCreated:
		return "✓"
	case core.StatusExisted:
		return "•"
	case core.StatusFailed:
		return "✗"
	case core.StatusSkipped:
		return "-"
	default:
		return "?"
	}
}

// OutcomeLine formats one provisioning outcome as a status line.
func (r *Renderer) OutcomeLine(o core.Outcome) string {
	var line string
	switch o.Status {
	case core.StatusCreated:
		line = fmt.Sprintf("%s %s %q created", statusSymbol(o.Status), o.Entity, o.Name)
	case core.StatusExisted:
		line = fmt.Sprintf("%s %s %q already exists", statusSymbol(o.Status), o.Entity, o.Name)
	case core.StatusFailed:
		line = fmt.Sprintf("%s %s %q provisioning failed", statusSymbol(o.Status), o.Entity, o.Name)
		if o.Err != nil {
			line += fmt.Sprintf(": %v", o.Err)
		}
	case core.StatusSkipped:
		line = fmt.Sprintf("%s %s %q skipped", statusSymbol(o.Status), o.Entity, o.Name)
	default:
		line = fmt.Sprintf("%s %s %q %s", statusSymbol(o.Status), o.Entity, o.Name, o.Status)
	}

	if r.mode == ModeText {
		return r.styles.ForStatus(o.Status).Render(line)
	}
	return line
}

// reportJSON is the machine-readable form of a report.
type reportJSON struct {
	Environment string      `json:"environment,omitempty"`
	Session     string      `json:"session"`
	Database    outcomeJSON `json:"database"`
	Table       outcomeJSON `json:"table"`
}

type outcomeJSON struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func toOutcomeJSON(o core.Outcome) outcomeJSON {
	oj := outcomeJSON{Name: o.Name, Status: o.Status.String()}
	if o.Err != nil {
		oj.Error = o.Err.Error()
	}
	return oj
}

// Report renders one initialization report. env labels the environment the
// report belongs to and may be empty.
func (r *Renderer) Report(env string, rep core.Report) error {
	if r.mode == ModeJSON {
		enc := json.NewEncoder(r.out)
		return enc.Encode(reportJSON{
			Environment: env,
			Session:     rep.SessionID,
			Database:    toOutcomeJSON(rep.Database),
			Table:       toOutcomeJSON(rep.Table),
		})
	}

	if env != "" {
		header := fmt.Sprintf("%s:", env)
		if r.mode == ModeText {
			header = r.styles.Header.Render(header)
		}
		if _, err := fmt.Fprintln(r.out, header); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(r.out, "  "+r.OutcomeLine(rep.Database)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(r.out, "  "+r.OutcomeLine(rep.Table))
	return err
}

// Errorf writes a message to the error stream.
func (r *Renderer) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if r.mode == ModeText {
		msg = r.styles.Failed.Render(msg)
	}
	fmt.Fprintln(r.errOut, msg)
}
