package greedi

import (
	"fmt"
	"reflect"
)

// Resolve is a generic helper that resolves a service as type T.
func Resolve[T any](c *Container) (T, error) {
	var zero T

	serviceType := reflect.TypeOf((*T)(nil)).Elem()

	instance, err := c.GetService(serviceType)
	if err != nil {
		return zero, err
	}

	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("type assertion failed: expected %T, got %T", zero, instance)
	}

	return result, nil
}

// MustResolve resolves a service and panics on error.
func MustResolve[T any](c *Container) T {
	result, err := Resolve[T](c)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %T: %v", *new(T), err))
	}
	return result
}

// ResolveAll resolves every registration under type T, in registration
// order.
func ResolveAll[T any](c *Container) ([]T, error) {
	serviceType := reflect.TypeOf((*T)(nil)).Elem()

	instances, err := c.GetServices(serviceType)
	if err != nil {
		return nil, err
	}

	results := make([]T, 0, len(instances))
	for i, instance := range instances {
		result, ok := instance.(T)
		if !ok {
			return nil, fmt.Errorf("type assertion failed for item %d: expected %T, got %T",
				i, *new(T), instance)
		}
		results = append(results, result)
	}

	return results, nil
}

// IsRegistered checks if a service type is registered.
func IsRegistered[T any](c *Container) bool {
	return c.Contains(reflect.TypeOf((*T)(nil)).Elem())
}

// ImplementationsOf returns the implementation types registered under
// service type T, without instantiating anything.
func ImplementationsOf[T any](c *Container) []reflect.Type {
	return c.ServiceTypes(reflect.TypeOf((*T)(nil)).Elem())
}
