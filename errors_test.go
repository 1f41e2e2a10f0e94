package greedi_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/greedi-dev/greedi"
	"github.com/greedi-dev/greedi/internal/testutil"
)

func TestErrorMessages(t *testing.T) {
	serviceType := reflect.TypeOf((*testutil.TestService)(nil))
	loggerType := reflect.TypeOf((*testutil.TestLogger)(nil)).Elem()
	ctorType := reflect.TypeOf(testutil.NewTestWorker)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "not registered",
			err:  greedi.NotRegisteredError{ServiceType: serviceType},
			want: "service not registered: *TestService",
		},
		{
			name: "not constructible",
			err:  greedi.NotConstructibleError{ImplementationType: serviceType},
			want: "implementation *TestService has no constructors",
		},
		{
			name: "no suitable constructor",
			err: greedi.NoSuitableConstructorError{
				ImplementationType: serviceType,
				Candidates:         2,
			},
			want: "no suitable constructor for *TestService: none of 2 candidates has all parameters satisfiable",
		},
		{
			name: "unresolvable parameter",
			err: greedi.UnresolvableParameterError{
				Constructor:   ctorType,
				ParameterType: loggerType,
				Index:         0,
			},
			want: "cannot resolve parameter 0 (TestLogger) of constructor func(testutil.TestLogger) *testutil.TestWorker",
		},
		{
			name: "lifetime",
			err:  greedi.LifetimeError{Value: 7},
			want: "invalid service lifetime: 7",
		},
		{
			name: "registration",
			err: greedi.RegistrationError{
				Operation: "add-singleton",
				Cause:     greedi.ErrConstructorNil,
			},
			want: "failed to add-singleton: constructor cannot be nil",
		},
		{
			name: "circular dependency",
			err: greedi.CircularDependencyError{
				Chain: []reflect.Type{serviceType, loggerType, serviceType},
			},
			want: "circular dependency detected: *TestService -> TestLogger -> *TestService",
		},
		{
			name: "circular dependency without chain",
			err:  greedi.CircularDependencyError{},
			want: "circular dependency detected",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	t.Parallel()

	serviceType := reflect.TypeOf((*testutil.TestService)(nil))

	t.Run("not registered unwraps to sentinel", func(t *testing.T) {
		err := greedi.NotRegisteredError{ServiceType: serviceType}
		assert.ErrorIs(t, err, greedi.ErrNotRegistered)
	})

	t.Run("instantiation unwraps to cause", func(t *testing.T) {
		err := greedi.InstantiationError{
			ImplementationType: serviceType,
			Cause:              testutil.ErrConstructor,
		}
		assert.ErrorIs(t, err, testutil.ErrConstructor)
	})

	t.Run("registration unwraps to cause", func(t *testing.T) {
		err := greedi.RegistrationError{
			Operation: "add-singleton",
			Cause:     greedi.ErrConstructorNil,
		}
		assert.ErrorIs(t, err, greedi.ErrConstructorNil)
		assert.Contains(t, err.Error(), "add-singleton")
	})

	t.Run("typed errors match with As through wrapping", func(t *testing.T) {
		cause := greedi.NotRegisteredError{ServiceType: serviceType}
		wrapped := greedi.InstantiationError{ImplementationType: serviceType, Cause: cause}

		var notRegistered greedi.NotRegisteredError
		assert.True(t, errors.As(wrapped, &notRegistered))
		assert.Equal(t, serviceType, notRegistered.ServiceType)
	})
}
