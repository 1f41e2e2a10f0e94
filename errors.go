package greedi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Sentinel errors. These are wrapped by the typed errors below so callers
// can match broad failure classes with errors.Is while still receiving
// the full context from errors.As.
var (
	ErrNotRegistered  = errors.New("service not registered")
	ErrServiceTypeNil = errors.New("service type cannot be nil")
	ErrConstructorNil = errors.New("constructor cannot be nil")
	ErrInstanceNil    = errors.New("instance cannot be nil")
	ErrArgumentNil    = errors.New("supplied argument cannot be nil")
	ErrNilResult      = errors.New("constructor returned no value")
	ErrNoConstructors = errors.New("implementation has no constructors")
)

var (
	_ error = LifetimeError{}
	_ error = RegistrationError{}
	_ error = NotRegisteredError{}
	_ error = NotConstructibleError{}
	_ error = NoSuitableConstructorError{}
	_ error = AmbiguousConstructorError{}
	_ error = UnresolvableParameterError{}
	_ error = InstantiationError{}
	_ error = ConstructorPanicError{}
	_ error = CircularDependencyError{}
)

// LifetimeError indicates an invalid service lifetime value.
type LifetimeError struct {
	Value any
}

func (e LifetimeError) Error() string {
	return fmt.Sprintf("invalid service lifetime: %v", e.Value)
}

// RegistrationError wraps errors that occur while a service is added to
// the container. The fluent registration API cannot return errors, so
// these are recorded on the container and surfaced on the next
// resolution call.
type RegistrationError struct {
	Operation string // "add-singleton", "add-transient", "add-instance"
	Cause     error
}

func (e RegistrationError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Cause)
}

func (e RegistrationError) Unwrap() error {
	return e.Cause
}

// NotRegisteredError indicates the requested service type has no
// descriptor in the container.
type NotRegisteredError struct {
	ServiceType reflect.Type
}

func (e NotRegisteredError) Error() string {
	return fmt.Sprintf("service not registered: %s", formatType(e.ServiceType))
}

func (e NotRegisteredError) Unwrap() error {
	return ErrNotRegistered
}

// NotConstructibleError indicates the implementation type was registered
// without any constructors.
type NotConstructibleError struct {
	ImplementationType reflect.Type
}

func (e NotConstructibleError) Error() string {
	return fmt.Sprintf("implementation %s has no constructors", formatType(e.ImplementationType))
}

func (e NotConstructibleError) Unwrap() error {
	return ErrNoConstructors
}

// NoSuitableConstructorError indicates no candidate constructor had all
// of its parameters satisfiable by supplied arguments, registered
// services, or optional defaults.
type NoSuitableConstructorError struct {
	ImplementationType reflect.Type
	Candidates         int
}

func (e NoSuitableConstructorError) Error() string {
	return fmt.Sprintf("no suitable constructor for %s: none of %d candidates has all parameters satisfiable",
		formatType(e.ImplementationType), e.Candidates)
}

// AmbiguousConstructorError indicates two or more eligible constructors
// scored equally and the container was configured with strict selection.
type AmbiguousConstructorError struct {
	ImplementationType reflect.Type
	Score              int
	Candidates         []reflect.Type
}

func (e AmbiguousConstructorError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = formatType(c)
	}
	return fmt.Sprintf("ambiguous constructor selection for %s: %d candidates scored %d: %s",
		formatType(e.ImplementationType), len(e.Candidates), e.Score, strings.Join(names, ", "))
}

// UnresolvableParameterError indicates a specific constructor parameter
// could not be matched to a supplied argument, a registered service, or
// an optional default.
type UnresolvableParameterError struct {
	Constructor   reflect.Type
	ParameterType reflect.Type
	Index         int
}

func (e UnresolvableParameterError) Error() string {
	return fmt.Sprintf("cannot resolve parameter %d (%s) of constructor %s",
		e.Index, formatType(e.ParameterType), formatType(e.Constructor))
}

func (e UnresolvableParameterError) Unwrap() error {
	return ErrNotRegistered
}

// InstantiationError indicates the constructor invocation itself failed
// or produced no value.
type InstantiationError struct {
	ImplementationType reflect.Type
	Constructor        reflect.Type
	Cause              error
}

func (e InstantiationError) Error() string {
	return fmt.Sprintf("failed to construct %s via %s: %v",
		formatType(e.ImplementationType), formatType(e.Constructor), e.Cause)
}

func (e InstantiationError) Unwrap() error {
	return e.Cause
}

// ConstructorPanicError indicates a constructor panicked during
// invocation. It captures the panic value and stack trace.
type ConstructorPanicError struct {
	Constructor reflect.Type
	Panic       any
	Stack       []byte
}

func (e ConstructorPanicError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "constructor %s panicked: %v", formatType(e.Constructor), e.Panic)
	if len(e.Stack) > 0 {
		b.WriteString("\n")
		b.Write(e.Stack)
	}
	return b.String()
}

// CircularDependencyError indicates resolution re-entered a service type
// that is already being constructed.
//
// Detection is scoped to a single GetService/GetServices call. Two
// goroutines racing to first-resolve mutually dependent singletons can
// block on each other's construction instead of receiving this error;
// resolve such a cycle once before going concurrent.
type CircularDependencyError struct {
	Chain []reflect.Type
}

func (e CircularDependencyError) Error() string {
	if len(e.Chain) == 0 {
		return "circular dependency detected"
	}
	names := make([]string, len(e.Chain))
	for i, t := range e.Chain {
		names[i] = formatType(t)
	}
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(names, " -> "))
}

// formatType formats a reflect.Type for error messages.
func formatType(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	switch t.Kind() {
	case reflect.Pointer:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "*" + elem.Name()
		}
		return t.String()
	case reflect.Slice:
		elem := t.Elem()
		if elem.PkgPath() != "" && elem.Name() != "" {
			return "[]" + elem.Name()
		}
		return t.String()
	case reflect.Interface, reflect.Struct:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	default:
		if t.Name() != "" {
			return t.Name()
		}
		return t.String()
	}
}
