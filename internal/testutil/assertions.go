package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/greedi-dev/greedi"
)

// AssertResolvable resolves a service of type T and fails the test if
// resolution errors or yields nil.
func AssertResolvable[T any](t *testing.T, c *greedi.Container) T {
	t.Helper()
	service, err := greedi.Resolve[T](c)
	require.NoError(t, err, "failed to resolve service of type %T", *new(T))
	require.NotNil(t, service, "resolved service is nil")
	return service
}

// AssertNotResolvable asserts that resolving T fails.
func AssertNotResolvable[T any](t *testing.T, c *greedi.Container) error {
	t.Helper()
	_, err := greedi.Resolve[T](c)
	require.Error(t, err, "expected resolution of %T to fail", *new(T))
	return err
}

// AssertSameInstance asserts two resolutions of T return the identical
// instance.
func AssertSameInstance[T comparable](t *testing.T, c *greedi.Container) {
	t.Helper()
	first := AssertResolvable[T](t, c)
	second := AssertResolvable[T](t, c)
	require.True(t, first == second, "expected the same instance on repeated resolution")
}
