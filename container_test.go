package greedi_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greedi-dev/greedi"
	"github.com/greedi-dev/greedi/internal/testutil"
)

func TestContainer_Creation(t *testing.T) {
	t.Run("creates empty container", func(t *testing.T) {
		t.Parallel()

		c := greedi.New()

		assert.NotNil(t, c)
		assert.Equal(t, 0, c.Count())
		assert.Empty(t, c.ToSlice())
		assert.NoError(t, c.Err())
	})
}

func TestContainer_Registration(t *testing.T) {
	tests := []struct {
		name     string
		register func(c *greedi.Container) *greedi.Container
		wantErr  assert.ErrorAssertionFunc
		validate func(t *testing.T, c *greedi.Container)
	}{
		{
			name: "adds singleton service",
			register: func(c *greedi.Container) *greedi.Container {
				return c.AddSingleton(testutil.NewTestLogger)
			},
			wantErr: assert.NoError,
			validate: func(t *testing.T, c *greedi.Container) {
				assert.Equal(t, 1, c.Count())
				assert.True(t, greedi.IsRegistered[testutil.TestLogger](c))
			},
		},
		{
			name: "adds transient service",
			register: func(c *greedi.Container) *greedi.Container {
				return c.AddTransient(testutil.NewTestService)
			},
			wantErr: assert.NoError,
			validate: func(t *testing.T, c *greedi.Container) {
				assert.Equal(t, 1, c.Count())
				assert.True(t, greedi.IsRegistered[*testutil.TestService](c))
			},
		},
		{
			name: "adds instance as singleton",
			register: func(c *greedi.Container) *greedi.Container {
				return c.AddInstance(testutil.NewTestCache())
			},
			wantErr: assert.NoError,
			validate: func(t *testing.T, c *greedi.Container) {
				assert.True(t, greedi.IsRegistered[*testutil.TestCache](c))

				descriptors := c.ToSlice()
				require.Len(t, descriptors, 1)
				assert.True(t, descriptors[0].IsInstance)
				assert.Equal(t, greedi.Singleton, descriptors[0].Lifetime)
			},
		},
		{
			name: "registers under interface with As",
			register: func(c *greedi.Container) *greedi.Container {
				return c.AddSingleton(testutil.NewTestCache, greedi.As[interface{ Set(string, string) }]())
			},
			wantErr: assert.NoError,
			validate: func(t *testing.T, c *greedi.Container) {
				descriptors := c.ToSlice()
				require.Len(t, descriptors, 1)
				assert.Equal(t, reflect.Interface, descriptors[0].ServiceType.Kind())
				assert.Equal(t, reflect.TypeOf((*testutil.TestCache)(nil)), descriptors[0].ImplementationType)
			},
		},
		{
			name: "rejects nil constructor",
			register: func(c *greedi.Container) *greedi.Container {
				return c.AddSingleton(nil)
			},
			wantErr: assert.Error,
			validate: func(t *testing.T, c *greedi.Container) {
				assert.Equal(t, 0, c.Count())
				assert.ErrorIs(t, c.Err(), greedi.ErrConstructorNil)
			},
		},
		{
			name: "rejects non-function constructor",
			register: func(c *greedi.Container) *greedi.Container {
				return c.AddSingleton(42)
			},
			wantErr: assert.Error,
			validate: func(t *testing.T, c *greedi.Container) {
				assert.Equal(t, 0, c.Count())

				var regErr greedi.RegistrationError
				assert.ErrorAs(t, c.Err(), &regErr)
				assert.Equal(t, "add-singleton", regErr.Operation)
			},
		},
		{
			name: "rejects implementation that does not satisfy As type",
			register: func(c *greedi.Container) *greedi.Container {
				return c.AddSingleton(testutil.NewTestCache, greedi.As[testutil.TestDatabase]())
			},
			wantErr: assert.Error,
			validate: func(t *testing.T, c *greedi.Container) {
				assert.Equal(t, 0, c.Count())
			},
		},
		{
			name: "rejects alternate constructor with different result type",
			register: func(c *greedi.Container) *greedi.Container {
				return c.AddSingleton(testutil.NewTestCache, greedi.WithConstructor(testutil.NewTestService))
			},
			wantErr: assert.Error,
			validate: func(t *testing.T, c *greedi.Container) {
				assert.Equal(t, 0, c.Count())
			},
		},
		{
			name: "rejects constructor returning a concrete error type",
			register: func(c *greedi.Container) *greedi.Container {
				type statusErr struct{ error }
				return c.AddSingleton(func() (*testutil.TestService, statusErr) {
					return testutil.NewTestService(), statusErr{}
				})
			},
			wantErr: assert.Error,
			validate: func(t *testing.T, c *greedi.Container) {
				// Must fail at registration; letting it through would
				// break every invocation of the constructor.
				assert.Equal(t, 0, c.Count())

				var regErr greedi.RegistrationError
				assert.ErrorAs(t, c.Err(), &regErr)
			},
		},
		{
			name: "rejects nil argument",
			register: func(c *greedi.Container) *greedi.Container {
				return c.AddTransient(testutil.NewTestDatabaseNamed, greedi.WithArguments(nil))
			},
			wantErr: assert.Error,
			validate: func(t *testing.T, c *greedi.Container) {
				assert.Equal(t, 0, c.Count())
				assert.ErrorIs(t, c.Err(), greedi.ErrArgumentNil)
			},
		},
		{
			name: "rejects nil instance",
			register: func(c *greedi.Container) *greedi.Container {
				return c.AddInstance(nil)
			},
			wantErr: assert.Error,
			validate: func(t *testing.T, c *greedi.Container) {
				assert.ErrorIs(t, c.Err(), greedi.ErrInstanceNil)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := tt.register(greedi.New())
			tt.wantErr(t, c.Err())
			if tt.validate != nil {
				tt.validate(t, c)
			}
		})
	}
}

func TestContainer_FluentChaining(t *testing.T) {
	t.Parallel()

	c := greedi.New().
		AddSingleton(testutil.NewTestLogger).
		AddSingleton(testutil.NewTestCache).
		AddTransient(testutil.NewTestWorker)

	require.NoError(t, c.Err())
	assert.Equal(t, 3, c.Count())
}

func TestContainer_RegistrationErrorSurfacesOnResolve(t *testing.T) {
	t.Parallel()

	c := greedi.New().
		AddSingleton(nil).
		AddSingleton(testutil.NewTestLogger)

	// The first failure sticks and blocks every resolution.
	_, err := greedi.Resolve[testutil.TestLogger](c)
	require.Error(t, err)
	assert.ErrorIs(t, err, greedi.ErrConstructorNil)

	_, err = c.GetServices(reflect.TypeOf((*testutil.TestLogger)(nil)).Elem())
	assert.ErrorIs(t, err, greedi.ErrConstructorNil)
}

func TestContainer_ServiceTypes(t *testing.T) {
	t.Parallel()

	c := greedi.New().
		AddSingleton(testutil.NewTestDatabase).
		AddSingleton(testutil.NewTestDatabaseNamed, greedi.WithArguments("replica"))
	require.NoError(t, c.Err())

	// The fixture constructors return the interface itself, so the
	// implementation type recorded on the descriptor is the interface.
	types := greedi.ImplementationsOf[testutil.TestDatabase](c)
	require.Len(t, types, 2)
	dbType := reflect.TypeOf((*testutil.TestDatabase)(nil)).Elem()
	assert.Equal(t, dbType, types[0])
	assert.Equal(t, dbType, types[1])

	// Introspection must not instantiate anything.
	assert.Nil(t, greedi.ImplementationsOf[*testutil.TestCache](c))
}

func TestContainer_Lookup(t *testing.T) {
	t.Parallel()

	c := greedi.New().AddSingleton(testutil.NewTestLogger)
	require.NoError(t, c.Err())

	assert.True(t, c.Contains(reflect.TypeOf((*testutil.TestLogger)(nil)).Elem()))
	assert.False(t, c.Contains(reflect.TypeOf((*testutil.TestCache)(nil))))

	_, err := c.GetService(nil)
	assert.ErrorIs(t, err, greedi.ErrServiceTypeNil)

	_, err = c.GetServices(nil)
	assert.ErrorIs(t, err, greedi.ErrServiceTypeNil)
}
