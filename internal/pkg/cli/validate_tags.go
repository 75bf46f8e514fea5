package cli

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/containerd/errdefs"

	"github.com/TheGrizzlyDev/argsort/internal/pkg/args"
)

// ValidateTags checks the args_* tags on the struct v points to. Every
// problem is reported, not just the first.
func ValidateTags(v any) error {
	if v == nil {
		return fmt.Errorf("%w: ValidateTags: nil value", errdefs.ErrInvalidArgument)
	}
	typ := reflect.TypeOf(v)
	if deref(typ).Kind() != reflect.Struct {
		return fmt.Errorf("%w: ValidateTags: %s is not a struct", errdefs.ErrInvalidArgument, typ)
	}

	var errs []string
	positions := map[int]string{}
	walkStruct(reflect.ValueOf(v), false, func(sf reflect.StructField, _ reflect.Value) {
		flag, hasFlag := sf.Tag.Lookup(tagFlag)
		abbrev, hasAbbrev := sf.Tag.Lookup(tagAbbrev)
		pos, hasPos := sf.Tag.Lookup(tagPositional)
		kindSpec, hasKind := sf.Tag.Lookup(tagKind)

		if !hasFlag && !hasPos {
			if hasAbbrev || hasKind {
				errs = append(errs, fmt.Sprintf("%s: field %q has %s or %s but is neither a flag nor a positional", typ, sf.Name, tagAbbrev, tagKind))
			}
			return
		}
		if hasFlag && hasPos {
			errs = append(errs, fmt.Sprintf("%s: field %q cannot have both %s and %s", typ, sf.Name, tagFlag, tagPositional))
			return
		}

		_, ok := kindFor(sf.Type)
		if hasKind {
			k, err := args.ParseKind(kindSpec)
			switch {
			case err != nil:
				errs = append(errs, fmt.Sprintf("%s: field %q has unknown %s %q", typ, sf.Name, tagKind, kindSpec))
			case !accepts(sf.Type, k):
				errs = append(errs, fmt.Sprintf("%s: field %q of type %s cannot hold %s values", typ, sf.Name, sf.Type, k))
			}
		} else if !ok {
			errs = append(errs, fmt.Sprintf("%s: field %q has unsupported type %s", typ, sf.Name, sf.Type))
		}

		if hasFlag {
			if strings.TrimSpace(flag) == "" {
				errs = append(errs, fmt.Sprintf("%s: field %q has empty %s", typ, sf.Name, tagFlag))
			} else if strings.HasPrefix(flag, "-") {
				errs = append(errs, fmt.Sprintf("%s: field %q %s=%q must be written without dashes", typ, sf.Name, tagFlag, flag))
			}
			if hasAbbrev && utf8.RuneCountInString(abbrev) != 1 {
				errs = append(errs, fmt.Sprintf("%s: field %q %s=%q must be a single character", typ, sf.Name, tagAbbrev, abbrev))
			}
			return
		}

		if hasAbbrev {
			errs = append(errs, fmt.Sprintf("%s: field %q (positional %s) must NOT set %s", typ, sf.Name, pos, tagAbbrev))
		}
		i, err := strconv.Atoi(pos)
		if err != nil || i < 0 {
			errs = append(errs, fmt.Sprintf("%s: field %q %s=%q must be a non-negative index", typ, sf.Name, tagPositional, pos))
			return
		}
		if other, dup := positions[i]; dup {
			errs = append(errs, fmt.Sprintf("%s: fields %q and %q both claim positional %d", typ, other, sf.Name, i))
			return
		}
		positions[i] = sf.Name
	})

	indexes := make([]int, 0, len(positions))
	for i := range positions {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	for want, got := range indexes {
		if want != got {
			errs = append(errs, fmt.Sprintf("%s: positional %d is missing, indexes must run from 0 without gaps", typ, want))
			break
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", errdefs.ErrInvalidArgument, errors.New("ValidateTags:\n  - "+strings.Join(errs, "\n  - ")))
	}
	return nil
}
