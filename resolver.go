package greedi

import (
	"reflect"
	"runtime/debug"

	"github.com/greedi-dev/greedi/internal/reflection"
)

// paramSource describes how a constructor parameter is satisfied.
type paramSource int

const (
	// fromArgument consumes a pre-supplied value from the descriptor's
	// argument pool.
	fromArgument paramSource = iota

	// fromService resolves a registered service recursively.
	fromService

	// fromDefault injects a zero-valued Optional wrapper.
	fromDefault
)

type paramBinding struct {
	source   paramSource
	argIndex int // index into Descriptor.Arguments when source is fromArgument
}

// constructorPlan is the result of scoring one candidate constructor:
// a binding per parameter and the count of parameters satisfied by an
// argument or a registered service.
type constructorPlan struct {
	ctor     *reflection.ConstructorInfo
	bindings []paramBinding
	score    int
}

// resolution tracks the state of one GetService/GetServices call: the
// stack of service types currently being constructed, used to fail fast
// on cycles instead of recursing unboundedly. The stack is per call, so
// a cycle split across goroutines concurrently first-resolving mutually
// dependent singletons is not detected (see CircularDependencyError).
type resolution struct {
	c        *Container
	stack    []reflect.Type
	inFlight map[reflect.Type]struct{}
}

func newResolution(c *Container) *resolution {
	return &resolution{
		c:        c,
		inFlight: make(map[reflect.Type]struct{}),
	}
}

// resolveType resolves a single instance of the requested type.
func (r *resolution) resolveType(requested reflect.Type) (any, error) {
	d := r.c.findDescriptor(requested)
	if d == nil {
		return nil, NotRegisteredError{ServiceType: requested}
	}
	return r.resolveDescriptor(d)
}

// resolveDescriptor applies lifetime policy and constructs if needed.
func (r *resolution) resolveDescriptor(d *Descriptor) (any, error) {
	if d.IsInstance {
		return d.Instance, nil
	}

	// Re-entering a type that is mid-construction is a cycle. This must
	// run before the singleton path: calling into an entry's Once from
	// inside itself would deadlock.
	if _, active := r.inFlight[d.ServiceType]; active {
		chain := make([]reflect.Type, len(r.stack), len(r.stack)+1)
		copy(chain, r.stack)
		return nil, CircularDependencyError{Chain: append(chain, d.ServiceType)}
	}

	if d.Lifetime == Singleton {
		entry := r.c.singletonFor(d)
		entry.once.Do(func() {
			entry.value, entry.err = r.construct(d)
		})
		return entry.value, entry.err
	}

	return r.construct(d)
}

// construct selects a constructor and invokes it with resolved
// parameters.
func (r *resolution) construct(d *Descriptor) (any, error) {
	r.stack = append(r.stack, d.ServiceType)
	r.inFlight[d.ServiceType] = struct{}{}
	defer func() {
		r.stack = r.stack[:len(r.stack)-1]
		delete(r.inFlight, d.ServiceType)
	}()

	plan, err := r.selectConstructor(d)
	if err != nil {
		return nil, err
	}

	args, err := r.bindParameters(d, plan)
	if err != nil {
		return nil, err
	}

	return r.invoke(d, plan.ctor, args)
}

// selectConstructor applies the greedy rule: among eligible candidates,
// the one whose parameters are satisfied by the most arguments and
// registered services wins. Ties keep the first candidate registered,
// unless the container was built with WithStrictSelection.
func (r *resolution) selectConstructor(d *Descriptor) (*constructorPlan, error) {
	if len(d.Constructors) == 0 {
		return nil, NotConstructibleError{ImplementationType: d.ImplementationType}
	}

	var best *constructorPlan
	var tied []reflect.Type
	var firstBlocked *UnresolvableParameterError

	for _, ctor := range d.Constructors {
		plan, blocked := r.planConstructor(d, ctor)
		if blocked != nil {
			if firstBlocked == nil {
				firstBlocked = blocked
			}
			continue
		}

		switch {
		case best == nil || plan.score > best.score:
			best = plan
			tied = tied[:0]
		case plan.score == best.score:
			tied = append(tied, plan.ctor.Type)
		}
	}

	if best == nil {
		// With a single candidate the failure can name the exact
		// parameter; with several, no one parameter is to blame.
		if len(d.Constructors) == 1 && firstBlocked != nil {
			return nil, *firstBlocked
		}
		return nil, NoSuitableConstructorError{
			ImplementationType: d.ImplementationType,
			Candidates:         len(d.Constructors),
		}
	}

	if r.c.strictSelection && len(tied) > 0 {
		candidates := make([]reflect.Type, 0, len(tied)+1)
		candidates = append(candidates, best.ctor.Type)
		candidates = append(candidates, tied...)
		return nil, AmbiguousConstructorError{
			ImplementationType: d.ImplementationType,
			Score:              best.score,
			Candidates:         candidates,
		}
	}

	return best, nil
}

// planConstructor checks eligibility of one candidate and scores it.
// Parameters are considered in declared order; each one is matched
// against the argument pool first, then the registry, then an optional
// default. A parameter satisfiable by none of the three makes the
// candidate ineligible and is reported to the caller; lookup failures
// here never surface past the selection step.
func (r *resolution) planConstructor(d *Descriptor, ctor *reflection.ConstructorInfo) (*constructorPlan, *UnresolvableParameterError) {
	plan := &constructorPlan{
		ctor:     ctor,
		bindings: make([]paramBinding, len(ctor.Parameters)),
	}

	consumed := make([]bool, len(d.Arguments))
	for i, param := range ctor.Parameters {
		if argIndex, ok := matchArgument(d.Arguments, consumed, param.Type); ok {
			consumed[argIndex] = true
			plan.bindings[i] = paramBinding{source: fromArgument, argIndex: argIndex}
			plan.score++
			continue
		}

		if param.Optional {
			if r.c.isResolvable(param.Elem) {
				plan.bindings[i] = paramBinding{source: fromService}
				plan.score++
			} else {
				plan.bindings[i] = paramBinding{source: fromDefault}
			}
			continue
		}

		if r.c.isResolvable(param.Type) {
			plan.bindings[i] = paramBinding{source: fromService}
			plan.score++
			continue
		}

		return nil, &UnresolvableParameterError{
			Constructor:   ctor.Type,
			ParameterType: param.Type,
			Index:         param.Index,
		}
	}

	return plan, nil
}

// matchArgument finds the first unconsumed pool value of exactly the
// wanted type, so two parameters of the same type draw distinct
// supplied values in order.
func matchArgument(pool []any, consumed []bool, want reflect.Type) (int, bool) {
	for i, value := range pool {
		if consumed[i] {
			continue
		}
		if reflect.TypeOf(value) == want {
			return i, true
		}
	}
	return 0, false
}

// bindParameters materializes the plan into a call frame, resolving
// registered services recursively.
func (r *resolution) bindParameters(d *Descriptor, plan *constructorPlan) ([]reflect.Value, error) {
	args := make([]reflect.Value, len(plan.ctor.Parameters))
	for i, param := range plan.ctor.Parameters {
		switch plan.bindings[i].source {
		case fromArgument:
			args[i] = reflect.ValueOf(d.Arguments[plan.bindings[i].argIndex])

		case fromService:
			if param.Optional {
				instance, err := r.resolveType(param.Elem)
				if err != nil {
					return nil, err
				}
				args[i] = reflection.NewOptionalValue(param.Type, reflect.ValueOf(instance), true)
				continue
			}

			instance, err := r.resolveType(param.Type)
			if err != nil {
				return nil, err
			}
			args[i] = reflect.ValueOf(instance)

		case fromDefault:
			args[i] = reflection.NewOptionalValue(param.Type, reflect.Value{}, false)
		}
	}
	return args, nil
}

// invoke calls the constructor, translating panics, error returns, and
// nil results into InstantiationError.
func (r *resolution) invoke(d *Descriptor, ctor *reflection.ConstructorInfo, args []reflect.Value) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = InstantiationError{
				ImplementationType: d.ImplementationType,
				Constructor:        ctor.Type,
				Cause: ConstructorPanicError{
					Constructor: ctor.Type,
					Panic:       p,
					Stack:       debug.Stack(),
				},
			}
		}
	}()

	out := ctor.Value.Call(args)

	if ctor.HasErrorReturn && !out[1].IsNil() {
		return nil, InstantiationError{
			ImplementationType: d.ImplementationType,
			Constructor:        ctor.Type,
			Cause:              out[1].Interface().(error),
		}
	}

	value := out[0]
	switch value.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if value.IsNil() {
			return nil, InstantiationError{
				ImplementationType: d.ImplementationType,
				Constructor:        ctor.Type,
				Cause:              ErrNilResult,
			}
		}
	}

	return value.Interface(), nil
}
