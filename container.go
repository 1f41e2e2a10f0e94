package greedi

import (
	"reflect"
	"sync"

	"github.com/greedi-dev/greedi/internal/reflection"
)

// Container is an ordered registry of service descriptors and the
// resolver that constructs instances from them.
//
// Registration is expected to run single-threaded to completion before
// any resolution occurs; the fluent Add methods are not safe for
// concurrent use. Once registration is done, resolution may be invoked
// from multiple goroutines.
//
// Example:
//
//	c := greedi.New().
//	    AddSingleton(NewLogger, greedi.As[Logger]()).
//	    AddTransient(NewWorker)
//
//	worker, err := greedi.Resolve[*Worker](c)
type Container struct {
	// descriptors is the insertion-ordered, append-only registration
	// list. Frozen by convention once resolution starts.
	descriptors []*Descriptor

	// byService and byImplementation index descriptors for lookup.
	// Slices preserve registration order for multi-bindings.
	byService        map[reflect.Type][]*Descriptor
	byImplementation map[reflect.Type][]*Descriptor

	// singletons caches realized singleton instances per descriptor.
	// Multi-bindings can share a ServiceType, so the descriptor is the
	// cache key; single resolution maps a service type to exactly one
	// descriptor, preserving one instance per requested type. Entries
	// carry a sync.Once so concurrent first requests construct at most
	// once.
	singletonsMu sync.RWMutex
	singletons   map[*Descriptor]*singletonEntry

	analyzer *reflection.Analyzer

	strictSelection bool

	// err holds the first registration failure. The fluent API cannot
	// return errors, so it is surfaced by Err and every resolution.
	err error
}

type singletonEntry struct {
	once  sync.Once
	value any
	err   error
}

// New creates an empty container.
func New(opts ...ContainerOption) *Container {
	options := &containerOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt.applyContainer(options)
		}
	}

	return &Container{
		byService:        make(map[reflect.Type][]*Descriptor),
		byImplementation: make(map[reflect.Type][]*Descriptor),
		singletons:       make(map[*Descriptor]*singletonEntry),
		analyzer:         reflection.NewAnalyzer(),
		strictSelection:  options.strictSelection,
	}
}

// AddSingleton registers a service with singleton lifetime: one instance
// is constructed on first resolution and shared for the life of the
// container.
func (c *Container) AddSingleton(constructor any, opts ...AddOption) *Container {
	return c.add(Singleton, "add-singleton", constructor, opts)
}

// AddTransient registers a service with transient lifetime: a fresh
// instance is constructed for every resolution.
func (c *Container) AddTransient(constructor any, opts ...AddOption) *Container {
	return c.add(Transient, "add-transient", constructor, opts)
}

// AddInstance registers a pre-built value as a singleton.
func (c *Container) AddInstance(value any, opts ...AddOption) *Container {
	descriptor, err := newInstanceDescriptor(value, opts...)
	if err != nil {
		c.recordError(RegistrationError{Operation: "add-instance", Cause: err})
		return c
	}

	c.append(descriptor)
	return c
}

func (c *Container) add(lifetime Lifetime, operation string, constructor any, opts []AddOption) *Container {
	descriptor, err := newDescriptor(c.analyzer, lifetime, constructor, opts...)
	if err != nil {
		c.recordError(RegistrationError{Operation: operation, Cause: err})
		return c
	}

	c.append(descriptor)
	return c
}

func (c *Container) append(d *Descriptor) {
	c.descriptors = append(c.descriptors, d)
	c.byService[d.ServiceType] = append(c.byService[d.ServiceType], d)
	if d.ImplementationType != d.ServiceType {
		c.byImplementation[d.ImplementationType] = append(c.byImplementation[d.ImplementationType], d)
	}
}

func (c *Container) recordError(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Err returns the first registration failure, or nil. Resolution calls
// return the same error, so checking Err explicitly is optional.
func (c *Container) Err() error {
	return c.err
}

// Contains reports whether a service type has at least one registration.
func (c *Container) Contains(serviceType reflect.Type) bool {
	return len(c.byService[serviceType]) > 0
}

// Count returns the number of registered descriptors.
func (c *Container) Count() int {
	return len(c.descriptors)
}

// ToSlice returns a copy of all registered descriptors in registration
// order, for inspection and debugging.
func (c *Container) ToSlice() []*Descriptor {
	out := make([]*Descriptor, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}

// ServiceTypes returns the implementation types registered under the
// given service type, in registration order, without instantiating
// anything.
func (c *Container) ServiceTypes(serviceType reflect.Type) []reflect.Type {
	bindings := c.byService[serviceType]
	if len(bindings) == 0 {
		return nil
	}

	types := make([]reflect.Type, len(bindings))
	for i, d := range bindings {
		types[i] = d.ImplementationType
	}
	return types
}

// findDescriptor returns the descriptor used for single resolution of
// the requested type: the last registered whose ServiceType matches,
// falling back to a match on ImplementationType. Returns nil when the
// type is unknown.
func (c *Container) findDescriptor(requested reflect.Type) *Descriptor {
	if bindings := c.byService[requested]; len(bindings) > 0 {
		return bindings[len(bindings)-1]
	}
	if bindings := c.byImplementation[requested]; len(bindings) > 0 {
		return bindings[len(bindings)-1]
	}
	return nil
}

// isResolvable reports whether a request for the type would find a
// descriptor. Used during constructor scoring.
func (c *Container) isResolvable(requested reflect.Type) bool {
	return len(c.byService[requested]) > 0 || len(c.byImplementation[requested]) > 0
}

// singletonFor returns the cache entry for a descriptor, creating it
// under the write lock on first access. The entry's sync.Once makes the
// check-construct-store sequence atomic.
func (c *Container) singletonFor(d *Descriptor) *singletonEntry {
	c.singletonsMu.RLock()
	entry, ok := c.singletons[d]
	c.singletonsMu.RUnlock()
	if ok {
		return entry
	}

	c.singletonsMu.Lock()
	defer c.singletonsMu.Unlock()
	entry, ok = c.singletons[d]
	if !ok {
		entry = &singletonEntry{}
		c.singletons[d] = entry
	}
	return entry
}

// GetService resolves one instance of the requested service type. With
// multiple registrations under the same type the last registered wins.
func (c *Container) GetService(serviceType reflect.Type) (any, error) {
	if c.err != nil {
		return nil, c.err
	}
	if serviceType == nil {
		return nil, ErrServiceTypeNil
	}

	r := newResolution(c)
	return r.resolveType(serviceType)
}

// GetServices resolves every registration under the requested service
// type, in registration order.
func (c *Container) GetServices(serviceType reflect.Type) ([]any, error) {
	if c.err != nil {
		return nil, c.err
	}
	if serviceType == nil {
		return nil, ErrServiceTypeNil
	}

	bindings := c.byService[serviceType]
	if len(bindings) == 0 {
		return nil, NotRegisteredError{ServiceType: serviceType}
	}

	instances := make([]any, len(bindings))
	for i, d := range bindings {
		r := newResolution(c)
		instance, err := r.resolveDescriptor(d)
		if err != nil {
			return nil, err
		}
		instances[i] = instance
	}
	return instances, nil
}
