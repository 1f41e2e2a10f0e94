package greedi

import "reflect"

// ContainerOption configures a container at creation time.
type ContainerOption interface {
	applyContainer(*containerOptions)
}

type containerOptions struct {
	strictSelection bool
}

type containerOptionFunc func(*containerOptions)

func (f containerOptionFunc) applyContainer(opts *containerOptions) {
	f(opts)
}

// WithStrictSelection makes constructor selection fail with
// AmbiguousConstructorError when two or more eligible constructors share
// the top score, instead of keeping the first one registered.
func WithStrictSelection() ContainerOption {
	return containerOptionFunc(func(opts *containerOptions) {
		opts.strictSelection = true
	})
}

// AddOption configures a single service registration.
type AddOption interface {
	applyAdd(*addOptions)
}

type addOptions struct {
	serviceType  reflect.Type
	constructors []any
	arguments    []any
}

type addOptionFunc func(*addOptions)

func (f addOptionFunc) applyAdd(opts *addOptions) {
	f(opts)
}

// As registers the implementation under the service type TService,
// typically an interface the implementation satisfies. Without it the
// registration is a self-registration under the implementation type.
func As[TService any]() AddOption {
	serviceType := reflect.TypeOf((*TService)(nil)).Elem()
	return addOptionFunc(func(opts *addOptions) {
		opts.serviceType = serviceType
	})
}

// WithConstructor adds an alternate constructor to the candidate set of
// a registration. All constructors of one registration must return the
// same implementation type; the resolver picks the candidate with the
// most satisfiable parameters.
func WithConstructor(constructor any) AddOption {
	return addOptionFunc(func(opts *addOptions) {
		opts.constructors = append(opts.constructors, constructor)
	})
}

// WithArguments supplies explicit values for constructor parameters.
// Each value is matched to a parameter by exact type, consumed at most
// once, in order, and takes precedence over registered services. Values
// must be non-nil; a nil value fails the registration.
func WithArguments(values ...any) AddOption {
	return addOptionFunc(func(opts *addOptions) {
		opts.arguments = append(opts.arguments, values...)
	})
}
