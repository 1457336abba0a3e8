package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
)

// fakeEvaluator returns fixed violations from whichever scopes it is wrapped in
type fakeEvaluator struct {
	name       string
	violations []Violation
	calls      int
}

func (f *fakeEvaluator) Name() string { return f.name }

type fakeStaffEvaluator struct{ *fakeEvaluator }

func (f fakeStaffEvaluator) EvaluateStaff(ctx *Context, staff model.StaffMember) []Violation {
	f.calls++
	return f.violations
}

type fakeDateEvaluator struct{ *fakeEvaluator }

func (f fakeDateEvaluator) EvaluateDate(ctx *Context, date time.Time) []Violation {
	f.calls++
	return f.violations
}

type fakePeriodEvaluator struct{ *fakeEvaluator }

func (f fakePeriodEvaluator) EvaluatePeriod(ctx *Context) []Violation {
	f.calls++
	return f.violations
}

func TestRegistry_RegisterAndOrder(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(fakeStaffEvaluator{&fakeEvaluator{name: "one"}}))
	require.NoError(t, registry.Register(fakeDateEvaluator{&fakeEvaluator{name: "two"}}))
	require.NoError(t, registry.Register(fakePeriodEvaluator{&fakeEvaluator{name: "three"}}))

	var names []string
	for _, e := range registry.Evaluators() {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"one", "two", "three"}, names)
	assert.Len(t, registry.staffEvaluators(), 1)
	assert.Len(t, registry.dateEvaluators(), 1)
	assert.Len(t, registry.periodEvaluators(), 1)
}

func TestRegistry_RejectsDuplicateNames(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(fakeStaffEvaluator{&fakeEvaluator{name: "dup"}}))

	err := registry.Register(fakeDateEvaluator{&fakeEvaluator{name: "dup"}})
	assert.ErrorContains(t, err, "already registered")
}

func TestRegistry_RejectsEvaluatorWithoutScope(t *testing.T) {
	err := NewRegistry().Register(&fakeEvaluator{name: "bare"})
	assert.ErrorContains(t, err, "no evaluation scope")
}

func TestRegistry_EvaluatorsReturnsCopy(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(fakeStaffEvaluator{&fakeEvaluator{name: "one"}}))

	evaluators := registry.Evaluators()
	evaluators[0] = nil
	assert.NotNil(t, registry.Evaluators()[0])
}
