package reflection

import (
	"reflect"
	"unsafe"
)

// OptionalElem reports whether typ is an Optional[T] wrapper and returns
// the wrapped type T. Detection is structural so this package does not
// depend on the root package: a struct exposing an Optional() marker
// method and a single-result Get() method is treated as a wrapper.
func OptionalElem(typ reflect.Type) (reflect.Type, bool) {
	if typ.Kind() != reflect.Struct {
		return nil, false
	}
	if _, ok := typ.MethodByName("Optional"); !ok {
		return nil, false
	}
	get, ok := typ.MethodByName("Get")
	if !ok || get.Type.NumOut() != 1 {
		return nil, false
	}
	return get.Type.Out(0), true
}

// NewOptionalValue builds a value of the given Optional[T] wrapper type.
// When present is true the wrapped value is injected, otherwise the
// wrapper stays at its zero value. The wrapper fields are unexported, so
// the write goes through unsafe, mirroring how the wrapper would be
// built by its own package.
func NewOptionalValue(typ reflect.Type, value reflect.Value, present bool) reflect.Value {
	box := reflect.New(typ).Elem()
	if !present {
		return box
	}

	setUnexported(box.FieldByName("value"), value)

	if presentField := box.FieldByName("present"); presentField.IsValid() {
		setUnexported(presentField, reflect.ValueOf(true))
	}

	return box
}

func setUnexported(field, value reflect.Value) {
	if !field.IsValid() {
		return
	}
	writable := reflect.NewAt(field.Type(), unsafe.Pointer(field.UnsafeAddr())).Elem()
	writable.Set(value)
}
