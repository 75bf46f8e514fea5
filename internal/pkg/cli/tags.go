package cli

import (
	"net/netip"
	"reflect"

	"github.com/TheGrizzlyDev/argsort/internal/pkg/args"
)

const (
	tagFlag       = "args_flag"
	tagAbbrev     = "args_abbrev"
	tagPositional = "args_positional"
	tagKind       = "args_kind"
	tagEmbed      = "args_embed"
)

var (
	socketType   = reflect.TypeOf(args.Socket{})
	addrPortType = reflect.TypeOf(netip.AddrPort{})
	pathType     = reflect.TypeOf(args.Path(""))
)

// kindFor reports the argument kind a field of type t holds when no
// args_kind tag overrides it.
func kindFor(t reflect.Type) (args.Kind, bool) {
	t = deref(t)
	switch t {
	case socketType, addrPortType:
		return args.KindSocket, true
	case pathType:
		return args.KindPath, true
	}
	switch t.Kind() {
	case reflect.String:
		return args.KindString, true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return args.KindInt, true
	case reflect.Float32, reflect.Float64:
		return args.KindFloat, true
	case reflect.Bool:
		return args.KindBool, true
	}
	return 0, false
}

// accepts reports whether a field of type t can hold a value of kind k.
func accepts(t reflect.Type, k args.Kind) bool {
	natural, ok := kindFor(t)
	if !ok {
		return false
	}
	if natural == k {
		return true
	}
	// Any string field can take a path or a plain string.
	return deref(t).Kind() == reflect.String && (k == args.KindPath || k == args.KindString)
}

func deref(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// walkStruct recursively visits exported fields, following anonymous
// embedded structs and fields tagged with args_embed. Nil embedded pointers
// are allocated when alloc is set, otherwise a zero value is walked.
func walkStruct(v reflect.Value, alloc bool, visit func(sf reflect.StructField, fv reflect.Value)) {
	if !v.IsValid() {
		return
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v = reflect.New(v.Type().Elem()).Elem()
		} else {
			v = v.Elem()
		}
	}
	if v.Kind() != reflect.Struct {
		return
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		// Unexported embedded structs still promote their exported fields.
		if !sf.IsExported() && !sf.Anonymous {
			continue
		}
		fv := v.Field(i)

		_, embed := sf.Tag.Lookup(tagEmbed)
		if sf.Anonymous || embed {
			switch fv.Kind() {
			case reflect.Struct:
				walkStruct(fv, alloc, visit)
				continue
			case reflect.Pointer:
				if fv.Type().Elem().Kind() != reflect.Struct {
					break
				}
				if fv.IsNil() && alloc && fv.CanSet() {
					fv.Set(reflect.New(fv.Type().Elem()))
				}
				walkStruct(fv, alloc, visit)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}

		visit(sf, fv)
	}
}
