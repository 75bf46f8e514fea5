// Package cli maps tagged structs onto argument declarations and copies
// parsed arguments back into them.
//
//	type probeArgs struct {
//		Target netip.AddrPort `args_flag:"target" args_abbrev:"t"`
//		Out    string         `args_positional:"0" args_kind:"path"`
//	}
package cli

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"unicode/utf8"

	"github.com/containerd/errdefs"

	"github.com/TheGrizzlyDev/argsort/internal/pkg/args"
)

type field struct {
	name  string
	index int
	kind  args.Kind
}

// fieldKind is the kind declared for sf, honouring args_kind.
func fieldKind(sf reflect.StructField) args.Kind {
	if spec, ok := sf.Tag.Lookup(tagKind); ok {
		if k, err := args.ParseKind(spec); err == nil {
			return k
		}
	}
	k, _ := kindFor(sf.Type)
	return k
}

// Declare derives the positional kinds and flag definitions described by the
// tags on v. Flags come back in field order.
func Declare(v any) ([]args.Kind, []args.FlagDefinition, error) {
	if err := ValidateTags(v); err != nil {
		return nil, nil, err
	}

	var (
		positionals []field
		flags       []args.FlagDefinition
	)
	walkStruct(reflect.ValueOf(v), false, func(sf reflect.StructField, _ reflect.Value) {
		if name, ok := sf.Tag.Lookup(tagFlag); ok {
			def := args.FlagDefinition{Name: name, Kind: fieldKind(sf)}
			if abbrev, ok := sf.Tag.Lookup(tagAbbrev); ok {
				def.Abbreviation, _ = utf8.DecodeRuneInString(abbrev)
			}
			flags = append(flags, def)
			return
		}
		if pos, ok := sf.Tag.Lookup(tagPositional); ok {
			i, _ := strconv.Atoi(pos)
			positionals = append(positionals, field{name: sf.Name, index: i, kind: fieldKind(sf)})
		}
	})

	sort.Slice(positionals, func(i, j int) bool { return positionals[i].index < positionals[j].index })
	kinds := make([]args.Kind, len(positionals))
	for i, p := range positionals {
		kinds[i] = p.kind
	}
	return kinds, flags, nil
}

// NewParser builds an args.Parser for the struct v points to.
func NewParser(v any, opts ...args.Option) (*args.Parser, error) {
	positionals, flags, err := Declare(v)
	if err != nil {
		return nil, err
	}
	return args.NewParser(positionals, flags, opts...)
}

// Bind copies the values in bag into the tagged fields of dst, which must be
// a non-nil pointer to a struct. Fields whose argument was not supplied keep
// their current value, so defaults can be set before binding.
func Bind(bag *args.ArgumentBag, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: Bind needs a non-nil struct pointer, got %T", errdefs.ErrInvalidArgument, dst)
	}
	if err := ValidateTags(dst); err != nil {
		return err
	}

	var bindErr error
	walkStruct(rv, true, func(sf reflect.StructField, fv reflect.Value) {
		if bindErr != nil {
			return
		}
		var (
			val     args.Variant
			present bool
			what    string
		)
		if name, ok := sf.Tag.Lookup(tagFlag); ok {
			val, present = bag.Named(name)
			what = "--" + name
		} else if pos, ok := sf.Tag.Lookup(tagPositional); ok {
			i, _ := strconv.Atoi(pos)
			val, present = bag.Positional(i)
			what = "positional " + pos
		}
		if !present {
			return
		}
		if err := setValue(fv, val); err != nil {
			bindErr = fmt.Errorf("%w: field %s (%s): %w", errdefs.ErrInvalidArgument, sf.Name, what, err)
		}
	})
	return bindErr
}

// Parse declares, parses argv and binds the result into dst in one step.
func Parse(ctx context.Context, dst any, argv []string, opts ...args.Option) (*args.ArgumentBag, error) {
	p, err := NewParser(dst, opts...)
	if err != nil {
		return nil, err
	}
	bag, err := p.Parse(ctx, argv)
	if err != nil {
		return nil, err
	}
	if err := Bind(bag, dst); err != nil {
		return nil, err
	}
	return bag, nil
}

func setValue(v reflect.Value, val args.Variant) error {
	if !v.CanSet() {
		return fmt.Errorf("field of type %s cannot be set", v.Type())
	}
	if !accepts(v.Type(), val.Kind()) {
		return fmt.Errorf("field of type %s cannot hold %s values", v.Type(), val.Kind())
	}
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}

	switch x := val.(type) {
	case args.String:
		v.SetString(string(x))
	case args.Path:
		v.SetString(string(x))
	case args.Bool:
		v.SetBool(bool(x))
	case args.Int:
		if v.OverflowInt(int64(x)) {
			return fmt.Errorf("value %d overflows field of type %s", int64(x), v.Type())
		}
		v.SetInt(int64(x))
	case args.Float:
		if v.OverflowFloat(float64(x)) {
			return fmt.Errorf("value %v overflows field of type %s", float64(x), v.Type())
		}
		v.SetFloat(float64(x))
	case args.Socket:
		if v.Type() == addrPortType {
			v.Set(reflect.ValueOf(x.Addr))
		} else {
			v.Set(reflect.ValueOf(x))
		}
	default:
		return fmt.Errorf("unsupported value %T", val)
	}
	return nil
}
