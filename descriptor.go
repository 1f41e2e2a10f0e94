package greedi

import (
	"fmt"
	"reflect"

	"github.com/greedi-dev/greedi/internal/reflection"
)

// Descriptor represents one service registration: the binding of a
// service type to an implementation type, a lifetime, the candidate
// constructor set, and an optional pool of pre-supplied arguments.
// Descriptors are immutable after creation.
type Descriptor struct {
	// ServiceType is the type callers request. Equal to
	// ImplementationType for self-registrations.
	ServiceType reflect.Type

	// ImplementationType is the concrete type the constructors produce.
	ImplementationType reflect.Type

	// Lifetime determines instance caching behavior.
	Lifetime Lifetime

	// Constructors is the candidate set, in registration order. The
	// resolver selects the eligible candidate with the highest number
	// of satisfiable parameters.
	Constructors []*reflection.ConstructorInfo

	// Arguments is the pool of pre-supplied constructor arguments.
	// Each resolution works on its own copy of the pool; every value is
	// consumed by at most one parameter, matched by exact type.
	Arguments []any

	// IsInstance indicates the descriptor holds a pre-built value.
	IsInstance bool

	// Instance is the pre-built value when IsInstance is true.
	Instance any
}

// newDescriptor builds a descriptor from a primary constructor plus any
// alternates and arguments carried by the options.
func newDescriptor(analyzer *reflection.Analyzer, lifetime Lifetime, constructor any, opts ...AddOption) (*Descriptor, error) {
	if constructor == nil {
		return nil, ErrConstructorNil
	}

	options := applyAddOptions(opts)

	// A nil argument could never match a parameter by type; reject it
	// here rather than surfacing an unresolvable parameter later.
	for i, arg := range options.arguments {
		if arg == nil {
			return nil, fmt.Errorf("%w: argument %d", ErrArgumentNil, i)
		}
	}

	constructors := make([]*reflection.ConstructorInfo, 0, 1+len(options.constructors))
	primary, err := analyzer.Analyze(constructor)
	if err != nil {
		return nil, err
	}
	constructors = append(constructors, primary)

	implType := primary.ResultType
	for _, alt := range options.constructors {
		info, err := analyzer.Analyze(alt)
		if err != nil {
			return nil, err
		}
		if info.ResultType != implType {
			return nil, fmt.Errorf("constructor %s returns %s, want %s",
				formatType(info.Type), formatType(info.ResultType), formatType(implType))
		}
		constructors = append(constructors, info)
	}

	serviceType := implType
	if options.serviceType != nil {
		if !implType.AssignableTo(options.serviceType) {
			return nil, fmt.Errorf("implementation %s does not satisfy service type %s",
				formatType(implType), formatType(options.serviceType))
		}
		serviceType = options.serviceType
	}

	return &Descriptor{
		ServiceType:        serviceType,
		ImplementationType: implType,
		Lifetime:           lifetime,
		Constructors:       constructors,
		Arguments:          options.arguments,
	}, nil
}

// newInstanceDescriptor builds a descriptor around a pre-built value.
// Instance registrations are always singletons.
func newInstanceDescriptor(value any, opts ...AddOption) (*Descriptor, error) {
	if value == nil {
		return nil, ErrInstanceNil
	}

	options := applyAddOptions(opts)
	if len(options.constructors) > 0 {
		return nil, fmt.Errorf("instance registration cannot carry constructors")
	}

	implType := reflect.TypeOf(value)
	serviceType := implType
	if options.serviceType != nil {
		if !implType.AssignableTo(options.serviceType) {
			return nil, fmt.Errorf("instance of %s does not satisfy service type %s",
				formatType(implType), formatType(options.serviceType))
		}
		serviceType = options.serviceType
	}

	return &Descriptor{
		ServiceType:        serviceType,
		ImplementationType: implType,
		Lifetime:           Singleton,
		IsInstance:         true,
		Instance:           value,
	}, nil
}

func applyAddOptions(opts []AddOption) *addOptions {
	options := &addOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt.applyAdd(options)
		}
	}
	return options
}

// Validate checks the descriptor's internal consistency.
func (d *Descriptor) Validate() error {
	if d.ServiceType == nil {
		return ErrServiceTypeNil
	}

	if !d.Lifetime.IsValid() {
		return LifetimeError{Value: d.Lifetime}
	}

	if d.IsInstance {
		if d.Instance == nil {
			return ErrInstanceNil
		}
		return nil
	}

	if len(d.Constructors) == 0 {
		return NotConstructibleError{ImplementationType: d.ImplementationType}
	}

	for _, ctor := range d.Constructors {
		if ctor.ResultType != d.ImplementationType {
			return fmt.Errorf("constructor %s returns %s, want %s",
				formatType(ctor.Type), formatType(ctor.ResultType), formatType(d.ImplementationType))
		}
	}

	return nil
}
