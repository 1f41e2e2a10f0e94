// Package chi provides greedi integration for the Chi router.
//
// This package provides middleware for attaching a container to each
// request and type-safe handler wrappers for resolving controllers.
//
// Example usage:
//
//	c := greedi.New().
//	    AddSingleton(NewUserService).
//	    AddTransient(NewUserController)
//
//	r := chi.NewRouter()
//	r.Use(greedichi.ContainerMiddleware(c))
//
//	r.Post("/login", greedichi.Handle((*AuthController).Login))
//	r.Get("/users/{id}", greedichi.Handle((*UserController).GetByID))
package chi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/greedi-dev/greedi"
)

type contextKey struct{}

// ErrNoContainer is returned by FromContext when no container is
// attached to the context.
var ErrNoContainer = errors.New("no container in context")

// FromContext retrieves the container attached by ContainerMiddleware.
func FromContext(ctx context.Context) (*greedi.Container, error) {
	c, ok := ctx.Value(contextKey{}).(*greedi.Container)
	if !ok {
		return nil, ErrNoContainer
	}
	return c, nil
}

// NewContext returns a copy of ctx carrying the container.
func NewContext(ctx context.Context, c *greedi.Container) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// Config holds the configuration for the container middleware.
type Config struct {
	// ErrorHandler is called when the container is unusable or a
	// middleware function fails. If nil, a default handler returning
	// 500 Internal Server Error is used.
	ErrorHandler func(http.ResponseWriter, *http.Request, error)

	// Middlewares are functions that run after the container is
	// attached. They can be used to initialize request state, set user
	// data, etc.
	Middlewares []func(*greedi.Container, *http.Request) error
}

// Option configures the container middleware.
type Option func(*Config)

// WithErrorHandler sets the error handler for container and middleware
// failures.
func WithErrorHandler(h func(http.ResponseWriter, *http.Request, error)) Option {
	return func(c *Config) {
		c.ErrorHandler = h
	}
}

// WithMiddleware adds a middleware function that runs after the
// container is attached. Multiple middlewares are executed in the order
// they are added.
func WithMiddleware(mw func(*greedi.Container, *http.Request) error) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mw)
	}
}

func defaultConfig() *Config {
	return &Config{
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
		Middlewares: nil,
	}
}

// ContainerMiddleware creates a Chi middleware that attaches the
// container to each request context, where Handle and FromContext can
// reach it.
//
// Registration failures recorded on the container are surfaced through
// the error handler before the request reaches the next handler.
//
// Example:
//
//	r := chi.NewRouter()
//	r.Use(greedichi.ContainerMiddleware(container))
func ContainerMiddleware(container *greedi.Container, opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := container.Err(); err != nil {
				cfg.ErrorHandler(w, r, err)
				return
			}

			r = r.WithContext(NewContext(r.Context(), container))

			for _, mw := range cfg.Middlewares {
				if err := mw(container, r); err != nil {
					cfg.ErrorHandler(w, r, err)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// HandlerConfig holds configuration for the Handle wrapper.
type HandlerConfig struct {
	// PanicRecovery enables panic recovery in the handler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	PanicHandler func(http.ResponseWriter, *http.Request, any)

	// ContainerErrorHandler is called when container retrieval fails.
	ContainerErrorHandler func(http.ResponseWriter, *http.Request, error)

	// ResolutionErrorHandler is called when service resolution fails.
	ResolutionErrorHandler func(http.ResponseWriter, *http.Request, error)
}

// HandlerOption configures the Handle wrapper.
type HandlerOption func(*HandlerConfig)

// WithPanicRecovery enables or disables panic recovery in the handler.
func WithPanicRecovery(enabled bool) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicRecovery = enabled
	}
}

// WithPanicHandler sets the handler for panics.
func WithPanicHandler(h func(http.ResponseWriter, *http.Request, any)) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithContainerErrorHandler sets the error handler for container retrieval failures.
func WithContainerErrorHandler(h func(http.ResponseWriter, *http.Request, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ContainerErrorHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for service resolution failures.
func WithResolutionErrorHandler(h func(http.ResponseWriter, *http.Request, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ResolutionErrorHandler = h
	}
}

func defaultHandlerConfig() *HandlerConfig {
	return &HandlerConfig{
		PanicRecovery: false,
		PanicHandler: func(w http.ResponseWriter, r *http.Request, v any) {
			slog.Error("panic in handler", "panic", v)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
		ContainerErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("failed to get container from context", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
		ResolutionErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			slog.Error("failed to resolve controller", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		},
	}
}

// Handle wraps a controller method for type-safe resolution from the
// container attached to the request context.
//
// The method signature should be: func(T, http.ResponseWriter, *http.Request)
//
// Example:
//
//	type UserController struct{ ... }
//
//	func (c *UserController) GetByID(w http.ResponseWriter, r *http.Request) { ... }
//
//	r.Get("/users/{id}", greedichi.Handle((*UserController).GetByID))
func Handle[T any](method func(T, http.ResponseWriter, *http.Request), opts ...HandlerOption) http.HandlerFunc {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					cfg.PanicHandler(w, r, v)
				}
			}()
		}

		container, err := FromContext(r.Context())
		if err != nil {
			cfg.ContainerErrorHandler(w, r, err)
			return
		}

		controller, err := greedi.Resolve[T](container)
		if err != nil {
			cfg.ResolutionErrorHandler(w, r, err)
			return
		}

		method(controller, w, r)
	}
}
