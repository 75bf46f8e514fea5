package args

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"
)

// FlagDefinition declares a named argument. Users set it with --Name or, when
// Abbreviation is non-zero, with -Abbreviation. The value is always stored
// under Name.
type FlagDefinition struct {
	Name         string
	Abbreviation rune // 0 means no abbreviation
	Kind         Kind
}

func (d FlagDefinition) String() string {
	if d.Abbreviation == 0 {
		return fmt.Sprintf("--%s <%s>", d.Name, d.Kind)
	}
	return fmt.Sprintf("--%s/-%c <%s>", d.Name, d.Abbreviation, d.Kind)
}

var flagNameRe = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

func validAbbreviation(r rune) bool {
	return r != '-' && r != '=' && r != unicode.ReplacementChar && unicode.IsPrint(r) && !unicode.IsSpace(r)
}

// validateDeclaration collects every problem with the declaration instead of
// stopping at the first one.
func validateDeclaration(positionals []Kind, flags []FlagDefinition) error {
	var errs []error
	for i, k := range positionals {
		if !k.valid() {
			errs = append(errs, &DeclarationError{Kind: ErrInvalidKind, Position: i, Type: k})
		}
	}

	names := make(map[string]struct{}, len(flags))
	abbrevs := make(map[rune]string, len(flags))
	for _, d := range flags {
		if !flagNameRe.MatchString(d.Name) {
			errs = append(errs, &DeclarationError{Kind: ErrInvalidFlagName, Flag: d.Name, Position: -1})
		} else if _, dup := names[d.Name]; dup {
			errs = append(errs, &DeclarationError{Kind: ErrDuplicateFlagName, Flag: d.Name, Position: -1})
		}
		names[d.Name] = struct{}{}

		if !d.Kind.valid() {
			errs = append(errs, &DeclarationError{Kind: ErrInvalidKind, Flag: d.Name, Position: -1, Type: d.Kind})
		}

		if d.Abbreviation == 0 {
			continue
		}
		if !validAbbreviation(d.Abbreviation) {
			errs = append(errs, &DeclarationError{Kind: ErrInvalidAbbreviation, Flag: d.Name, Abbreviation: d.Abbreviation, Position: -1})
			continue
		}
		if other, dup := abbrevs[d.Abbreviation]; dup {
			errs = append(errs, &DeclarationError{Kind: ErrDuplicateAbbreviation, Flag: d.Name, Other: other, Abbreviation: d.Abbreviation, Position: -1})
			continue
		}
		abbrevs[d.Abbreviation] = d.Name
	}

	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return errors.Join(errs...)
	}
}
