package entities

import (
	"reflect"
)

// ConvertRecord runs Convert over every string reachable from v, which must
// be a pointer. Structs, slices, arrays, maps and interfaces are walked;
// unexported fields are skipped. Map keys are left as they are.
func (c *Converter) ConvertRecord(v any) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return
	}
	c.walk(rv.Elem())
}

func (c *Converter) walk(v reflect.Value) {
	switch v.Kind() {
	case reflect.String:
		if v.CanSet() {
			v.SetString(c.Convert(v.String()))
		}
	case reflect.Pointer:
		if !v.IsNil() {
			c.walk(v.Elem())
		}
	case reflect.Interface:
		if v.IsNil() || !v.CanSet() {
			return
		}
		// interface contents are not addressable: convert a copy and put it back
		inner := v.Elem()
		cp := reflect.New(inner.Type()).Elem()
		cp.Set(inner)
		c.walk(cp)
		v.Set(cp)
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				c.walk(v.Field(i))
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			c.walk(v.Index(i))
		}
	case reflect.Map:
		if v.IsNil() {
			return
		}
		iter := v.MapRange()
		for iter.Next() {
			val := reflect.New(iter.Value().Type()).Elem()
			val.Set(iter.Value())
			c.walk(val)
			v.SetMapIndex(iter.Key(), val)
		}
	}
}
