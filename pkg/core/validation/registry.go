package validation

import (
	"fmt"
	"time"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
)

// Evaluator is a rule family. Every evaluator implements at least one of
// StaffEvaluator, DateEvaluator or PeriodEvaluator, which decides when the
// orchestrator calls it.
type Evaluator interface {
	// Name returns a human-readable identifier for this evaluator
	Name() string
}

// StaffEvaluator checks one staff member's schedule across the whole period
type StaffEvaluator interface {
	Evaluator
	EvaluateStaff(ctx *Context, staff model.StaffMember) []Violation
}

// DateEvaluator checks one calendar date across all staff
type DateEvaluator interface {
	Evaluator
	EvaluateDate(ctx *Context, date time.Time) []Violation
}

// PeriodEvaluator runs once per validation with access to the full period
type PeriodEvaluator interface {
	Evaluator
	EvaluatePeriod(ctx *Context) []Violation
}

// Registry holds the evaluators run by a Validator, in registration order
type Registry struct {
	evaluators []Evaluator
	names      map[string]bool
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]bool)}
}

// Register adds an evaluator. Names must be unique and the evaluator must
// implement at least one evaluation scope.
func (r *Registry) Register(e Evaluator) error {
	if r.names[e.Name()] {
		return fmt.Errorf("evaluator %q already registered", e.Name())
	}

	_, isStaff := e.(StaffEvaluator)
	_, isDate := e.(DateEvaluator)
	_, isPeriod := e.(PeriodEvaluator)
	if !isStaff && !isDate && !isPeriod {
		return fmt.Errorf("evaluator %q implements no evaluation scope", e.Name())
	}

	r.names[e.Name()] = true
	r.evaluators = append(r.evaluators, e)
	return nil
}

// Evaluators returns the registered evaluators in registration order
func (r *Registry) Evaluators() []Evaluator {
	out := make([]Evaluator, len(r.evaluators))
	copy(out, r.evaluators)
	return out
}

func (r *Registry) staffEvaluators() []StaffEvaluator {
	var out []StaffEvaluator
	for _, e := range r.evaluators {
		if se, ok := e.(StaffEvaluator); ok {
			out = append(out, se)
		}
	}
	return out
}

func (r *Registry) dateEvaluators() []DateEvaluator {
	var out []DateEvaluator
	for _, e := range r.evaluators {
		if de, ok := e.(DateEvaluator); ok {
			out = append(out, de)
		}
	}
	return out
}

func (r *Registry) periodEvaluators() []PeriodEvaluator {
	var out []PeriodEvaluator
	for _, e := range r.evaluators {
		if pe, ok := e.(PeriodEvaluator); ok {
			out = append(out, pe)
		}
	}
	return out
}
