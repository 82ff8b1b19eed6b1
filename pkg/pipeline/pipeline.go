// Package pipeline runs ordered sequences of transform passes over a program.
//
// A pipeline stops at the first pass that fails: later passes assume a valid input and are
// never run against a program that failed validation.
package pipeline

import (
	"strconv"
	"time"

	"github.com/jensneuse/abstractlogger"
	"github.com/pkg/errors"

	"github.com/wundergraph/graphql-go-compiler/pkg/ir"
)

type TransformFunc func(program *ir.Program) (*ir.Program, error)

type ValidationFunc func(program *ir.Program) error

type Pass struct {
	Name string
	Run  TransformFunc
}

func Transform(name string, transform TransformFunc) Pass {
	return Pass{Name: name, Run: transform}
}

// Validation adapts a check to a pass that returns the program it was given.
func Validation(name string, validate ValidationFunc) Pass {
	return Pass{
		Name: name,
		Run: func(program *ir.Program) (*ir.Program, error) {
			if err := validate(program); err != nil {
				return nil, err
			}
			return program, nil
		},
	}
}

type Pipeline struct {
	Name   string
	Passes []Pass
}

func New(name string, passes ...Pass) Pipeline {
	return Pipeline{Name: name, Passes: passes}
}

// Then returns a pipeline running the passes of p followed by passes. p is not modified.
func (p Pipeline) Then(passes ...Pass) Pipeline {
	next := make([]Pass, 0, len(p.Passes)+len(passes))
	next = append(next, p.Passes...)
	return Pipeline{Name: p.Name, Passes: append(next, passes...)}
}

// When appends passes only if enabled.
func (p Pipeline) When(enabled bool, passes ...Pass) Pipeline {
	if !enabled {
		return p
	}
	return p.Then(passes...)
}

func (p Pipeline) PassNames() []string {
	names := make([]string, len(p.Passes))
	for i := range p.Passes {
		names[i] = p.Passes[i].Name
	}
	return names
}

// Run applies all passes in order. The error of a failing pass is returned with the
// pipeline and pass name attached, diagnostics stay reachable with errors.As.
func (p Pipeline) Run(program *ir.Program, logger abstractlogger.Logger) (*ir.Program, error) {
	for _, pass := range p.Passes {
		start := time.Now()
		out, err := pass.Run(program)
		if err != nil {
			logger.Debug("pipeline.Pipeline.Run()",
				abstractlogger.String("pipeline", p.Name),
				abstractlogger.String("pass", pass.Name),
				abstractlogger.Error(err),
			)
			return nil, errors.WithMessagef(err, "%s: %s", p.Name, pass.Name)
		}
		logger.Debug("pipeline.Pipeline.Run()",
			abstractlogger.String("pipeline", p.Name),
			abstractlogger.String("pass", pass.Name),
			abstractlogger.String("changed", strconv.FormatBool(out != program)),
			abstractlogger.String("took", time.Since(start).String()),
		)
		program = out
	}
	return program, nil
}
