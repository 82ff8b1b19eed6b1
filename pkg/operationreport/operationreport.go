// Package operationreport collects the diagnostics produced while building and transforming a program.
package operationreport

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
)

// Report accumulates diagnostics across a whole pass. Internal errors are failures of the
// compiler itself, diagnostics are problems in the user's documents.
type Report struct {
	InternalErrors []error
	Diagnostics    Diagnostics
}

func (r Report) Error() string {
	out := ""
	for i := range r.InternalErrors {
		if i != 0 {
			out += "\n"
		}
		out += fmt.Sprintf("internal: %s", r.InternalErrors[i].Error())
	}
	if len(out) > 0 && len(r.Diagnostics) > 0 {
		out += "\n"
	}
	for i := range r.Diagnostics {
		if i != 0 {
			out += "\n"
		}
		out += fmt.Sprintf("external: %s", r.Diagnostics[i].Error())
	}
	return out
}

func (r *Report) HasErrors() bool {
	return len(r.InternalErrors) > 0 || len(r.Diagnostics) > 0
}

func (r *Report) Reset() {
	r.InternalErrors = r.InternalErrors[:0]
	r.Diagnostics = r.Diagnostics[:0]
}

func (r *Report) AddInternalError(err error) {
	r.InternalErrors = append(r.InternalErrors, err)
}

func (r *Report) AddDiagnostic(diagnostic Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, diagnostic)
}

// Err returns nil for an empty report. Diagnostics are returned as Diagnostics so callers
// can inspect them with errors.As, internal errors take precedence.
func (r *Report) Err() error {
	if len(r.InternalErrors) > 0 {
		return *r
	}
	if len(r.Diagnostics) > 0 {
		out := make(Diagnostics, len(r.Diagnostics))
		copy(out, r.Diagnostics)
		return out
	}
	return nil
}

// Diagnostic is a problem in a user document with one or more source locations.
type Diagnostic struct {
	Kind      Kind
	Message   string
	Locations []ir.Location
}

func (d Diagnostic) Error() string {
	locations := make([]string, 0, len(d.Locations))
	for i := range d.Locations {
		if d.Locations[i].Source.IsEmpty() {
			continue
		}
		locations = append(locations, d.Locations[i].String())
	}
	if len(locations) == 0 {
		return d.Message
	}
	return fmt.Sprintf("%s, locations: [%s]", d.Message, strings.Join(locations, ", "))
}

// Diagnostics is the error a pass returns when it found problems.
type Diagnostics []Diagnostic

func (d Diagnostics) Error() string {
	messages := make([]string, len(d))
	for i := range d {
		messages[i] = d[i].Error()
	}
	return strings.Join(messages, "\n")
}

// Sorted orders diagnostics by first location, then message. The receiver is not modified.
func (d Diagnostics) Sorted() Diagnostics {
	out := make(Diagnostics, len(d))
	copy(out, d)
	sort.SliceStable(out, func(i, j int) bool {
		left, right := firstLocation(out[i]), firstLocation(out[j])
		if left.Source != right.Source {
			return left.Source.Less(right.Source)
		}
		if left.Start != right.Start {
			return left.Start < right.Start
		}
		return out[i].Message < out[j].Message
	})
	return out
}

func (d Diagnostics) HasKind(kind Kind) bool {
	for i := range d {
		if d[i].Kind == kind {
			return true
		}
	}
	return false
}

func firstLocation(d Diagnostic) ir.Location {
	if len(d.Locations) == 0 {
		return ir.Location{}
	}
	return d.Locations[0]
}

// AsDiagnostics extracts diagnostics from err.
func AsDiagnostics(err error) (Diagnostics, bool) {
	var diagnostics Diagnostics
	if errors.As(err, &diagnostics) {
		return diagnostics, true
	}
	var report Report
	if errors.As(err, &report) {
		return report.Diagnostics, len(report.Diagnostics) > 0
	}
	return nil, false
}

type FormatExternalErrorMessage func(diagnostics Diagnostics) string

func ExternalErrorMessage(err error, formatFunction FormatExternalErrorMessage) (message string, ok bool) {
	diagnostics, ok := AsDiagnostics(err)
	if !ok {
		return "", false
	}
	return formatFunction(diagnostics), true
}

func UnwrappedErrorMessage(err error) string {
	for result := err; result != nil; result = errors.Unwrap(result) {
		err = result
	}
	return err.Error()
}
