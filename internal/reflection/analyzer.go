// Package reflection analyzes constructor functions for the container.
//
// A constructor is any function returning a service value, optionally
// followed by an error:
//
//	func() *Logger
//	func(db *Database) (*Service, error)
//
// Analysis results are cached per function pointer, so repeated
// registrations of the same constructor are cheap.
package reflection

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

var (
	ErrNilConstructor = errors.New("constructor cannot be nil")
	ErrNotFunction    = errors.New("constructor must be a function")
	ErrNoResult       = errors.New("constructor must return a service value")
	ErrBadResult      = errors.New("constructor must return (T) or (T, error)")
	ErrVariadic       = errors.New("variadic constructors are not supported")
)

// ConstructorInfo contains the analyzed shape of one constructor function.
type ConstructorInfo struct {
	// Value is the reflected function value, used for invocation.
	Value reflect.Value

	// Type is the function type.
	Type reflect.Type

	// Parameters describes each parameter in declared order.
	Parameters []Parameter

	// ResultType is the type of the first return value.
	ResultType reflect.Type

	// HasErrorReturn reports whether the function returns (T, error).
	HasErrorReturn bool
}

// Parameter describes one constructor parameter.
type Parameter struct {
	// Type is the declared parameter type. For optional parameters this
	// is the Optional[T] wrapper type itself.
	Type reflect.Type

	// Index is the parameter position.
	Index int

	// Optional reports whether the parameter is an Optional[T] wrapper
	// and may be satisfied by its zero value.
	Optional bool

	// Elem is the wrapped type T for optional parameters, nil otherwise.
	Elem reflect.Type
}

// Analyzer analyzes constructor functions and caches the results.
type Analyzer struct {
	mu    sync.RWMutex
	cache map[uintptr]*ConstructorInfo
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{cache: make(map[uintptr]*ConstructorInfo)}
}

// Analyze inspects a constructor function and returns its shape.
func (a *Analyzer) Analyze(constructor any) (*ConstructorInfo, error) {
	if constructor == nil {
		return nil, ErrNilConstructor
	}

	val := reflect.ValueOf(constructor)
	if !val.IsValid() || (val.Kind() == reflect.Func && val.IsNil()) {
		return nil, ErrNilConstructor
	}

	typ := val.Type()
	if typ.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w, got %s", ErrNotFunction, typ.Kind())
	}

	key := val.Pointer()

	a.mu.RLock()
	if cached, ok := a.cache[key]; ok {
		a.mu.RUnlock()
		return cached, nil
	}
	a.mu.RUnlock()

	info, err := analyze(val, typ)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.cache[key] = info
	a.mu.Unlock()

	return info, nil
}

func analyze(val reflect.Value, typ reflect.Type) (*ConstructorInfo, error) {
	if typ.IsVariadic() {
		return nil, ErrVariadic
	}

	switch typ.NumOut() {
	case 0:
		return nil, ErrNoResult
	case 1:
		if typ.Out(0) == errType {
			return nil, ErrNoResult
		}
	case 2:
		// The second return must be the error interface itself. A
		// concrete type merely implementing error would make the
		// invoker's IsNil check panic for non-nilable kinds.
		if typ.Out(0) == errType || typ.Out(1) != errType {
			return nil, ErrBadResult
		}
	default:
		return nil, ErrBadResult
	}

	info := &ConstructorInfo{
		Value:          val,
		Type:           typ,
		ResultType:     typ.Out(0),
		HasErrorReturn: typ.NumOut() == 2,
		Parameters:     make([]Parameter, typ.NumIn()),
	}

	for i := 0; i < typ.NumIn(); i++ {
		paramType := typ.In(i)
		param := Parameter{Type: paramType, Index: i}
		if elem, ok := OptionalElem(paramType); ok {
			param.Optional = true
			param.Elem = elem
		}
		info.Parameters[i] = param
	}

	return info, nil
}
