// Package greedi provides a minimal dependency injection container with
// greedy constructor selection.
//
// # Overview
//
// greedi maps service types to implementation constructors and builds
// instances on demand:
//   - Two service lifetimes: Singleton and Transient
//   - Recursive constructor injection with automatic wiring
//   - Greedy selection among multiple constructors per implementation
//   - Pre-supplied constructor arguments and optional parameters
//   - Cycle detection with a full dependency chain in the error
//   - Zero struct tags or code generation required
//
// # Basic Usage
//
// Create a container, register services fluently, and resolve:
//
//	c := greedi.New().
//	    AddSingleton(NewLogger, greedi.As[Logger]()).
//	    AddTransient(NewWorker)
//
//	worker, err := greedi.Resolve[*Worker](c)
//
// Registration is expected to run to completion before resolution
// begins; afterwards the container is safe for concurrent resolution.
//
// # Greedy Constructor Selection
//
// An implementation may expose several constructors. The resolver keeps
// every candidate whose parameters are all satisfiable, scores each by
// the number of parameters covered by supplied arguments and registered
// services, and picks the highest score:
//
//	c := greedi.New().
//	    AddSingleton(NewServer, greedi.WithConstructor(NewServerWithCache)).
//	    AddSingleton(NewCache)
//
// Because *Cache is registered, NewServerWithCache outscores NewServer
// and the server is built fully wired. Ties keep the first constructor
// registered; WithStrictSelection turns a tie into an error instead.
//
// # Optional Parameters
//
// A parameter of type Optional[T] never disqualifies a constructor.
// When T is unavailable the wrapper arrives zero-valued:
//
//	func NewWorker(log Logger, cache greedi.Optional[*Cache]) *Worker {
//	    if c, ok := cache.Value(); ok {
//	        // cache was registered
//	    }
//	    ...
//	}
//
// # Multiple Registrations
//
// The same service type may be registered repeatedly. GetService and
// Resolve return the last registration; GetServices and ResolveAll
// return all of them in registration order.
package greedi
