package greedi

// Optional declares an optional constructor parameter. A parameter of
// type Optional[T] never makes a constructor ineligible: when T cannot
// be satisfied by a supplied argument or a registered service, the
// parameter receives a zero-valued wrapper instead.
//
//	func NewWorker(log Logger, cache Optional[Cache]) *Worker {
//	    if c, ok := cache.Value(); ok {
//	        // cache was registered
//	    }
//	}
type Optional[T any] struct {
	value   T
	present bool
}

// OptionalOf wraps a value in a present Optional. Useful when supplying
// optional values through WithArguments.
func OptionalOf[T any](value T) Optional[T] {
	return Optional[T]{value: value, present: true}
}

// Get returns the wrapped value, or the zero value of T when absent.
func (o Optional[T]) Get() T {
	return o.value
}

// Value returns the wrapped value and whether it was injected.
func (o Optional[T]) Value() (T, bool) {
	return o.value, o.present
}

// IsPresent reports whether a value was injected.
func (o Optional[T]) IsPresent() bool {
	return o.present
}

// Optional marks this type as an optional parameter wrapper.
func (o Optional[T]) Optional() {}
