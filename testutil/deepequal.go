package testutil

import "reflect"

// DeepEqual is like reflect.DeepEqual with two differences
// that suit program and value comparisons in tests:
// nil maps and slices equal empty ones, and a type with an
// Equal(T) bool method is compared by that method, so types
// and values compare structurally rather than by their
// memoized internals.
func DeepEqual(x, y interface{}) bool {
	c := comparer{seen: make(map[pointerPair]bool)}
	return c.equal(reflect.ValueOf(x), reflect.ValueOf(y))
}

type pointerPair struct {
	x, y uintptr
	typ  reflect.Type
}

type comparer struct {
	// seen records pointer pairs under comparison,
	// so that cyclic structures terminate.
	seen map[pointerPair]bool
}

func (c *comparer) equal(x, y reflect.Value) bool {
	if isEmpty(x) && isEmpty(y) {
		return true
	}
	if !x.IsValid() || !y.IsValid() {
		return x.IsValid() == y.IsValid()
	}
	if x.Type() != y.Type() {
		return false
	}
	if eq, ok := equalMethod(x, y); ok {
		return eq
	}

	switch x.Kind() {
	case reflect.Ptr:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() && y.IsNil()
		}
		p := pointerPair{x.Pointer(), y.Pointer(), x.Type()}
		if p.x == p.y || c.seen[p] {
			return true
		}
		c.seen[p] = true
		return c.equal(x.Elem(), y.Elem())
	case reflect.Interface:
		if x.IsNil() || y.IsNil() {
			return x.IsNil() && y.IsNil()
		}
		return c.equal(x.Elem(), y.Elem())
	case reflect.Array, reflect.Slice:
		if x.Len() != y.Len() {
			return false
		}
		for i := 0; i < x.Len(); i++ {
			if !c.equal(x.Index(i), y.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < x.NumField(); i++ {
			if !c.equal(x.Field(i), y.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Map:
		if x.Len() != y.Len() {
			return false
		}
		for _, k := range x.MapKeys() {
			if !c.equal(x.MapIndex(k), y.MapIndex(k)) {
				return false
			}
		}
		return true
	case reflect.Func, reflect.Chan:
		return x.IsNil() && y.IsNil()
	}
	return scalarEqual(x, y)
}

// scalarEqual compares values of basic kinds without
// calling Interface, which unexported fields forbid.
func scalarEqual(x, y reflect.Value) bool {
	switch x.Kind() {
	case reflect.Bool:
		return x.Bool() == y.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return x.Int() == y.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return x.Uint() == y.Uint()
	case reflect.Float32, reflect.Float64:
		return x.Float() == y.Float()
	case reflect.String:
		return x.String() == y.String()
	}
	return false
}

var boolType = reflect.TypeOf(false)

// equalMethod calls x.Equal(y) if x's type has an exported
// method of that shape.
func equalMethod(x, y reflect.Value) (eq, ok bool) {
	if !x.CanInterface() || !y.CanInterface() {
		return false, false
	}
	m := x.MethodByName("Equal")
	if !m.IsValid() {
		return false, false
	}
	mt := m.Type()
	if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.In(0) != x.Type() || mt.Out(0) != boolType {
		return false, false
	}
	if x.Kind() == reflect.Ptr && (x.IsNil() || y.IsNil()) {
		return x.IsNil() && y.IsNil(), true
	}
	return m.Call([]reflect.Value{y})[0].Bool(), true
}

func isEmpty(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Ptr:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.IsNil() || v.Len() == 0
	}
	return false
}
