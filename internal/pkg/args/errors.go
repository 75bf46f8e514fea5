package args

import (
	"errors"
	"fmt"

	"github.com/containerd/errdefs"
)

type ErrorKind string

// Declaration failures, reported by NewParser before any token is read.
const (
	ErrDuplicateFlagName     ErrorKind = "duplicate_flag_name"
	ErrDuplicateAbbreviation ErrorKind = "duplicate_abbreviation"
	ErrInvalidFlagName       ErrorKind = "invalid_flag_name"
	ErrInvalidAbbreviation   ErrorKind = "invalid_abbreviation"
	ErrInvalidKind           ErrorKind = "invalid_kind"
)

// Parse failures, reported by Parser.Parse.
const (
	ErrNoArguments        ErrorKind = "no_arguments"
	ErrUnknownFlag        ErrorKind = "unknown_flag"
	ErrMissingFlagValue   ErrorKind = "missing_flag_value"
	ErrInvalidValue       ErrorKind = "invalid_value"
	ErrResolutionFailed   ErrorKind = "resolution_failed"
	ErrTooManyPositionals ErrorKind = "too_many_positionals"
)

// class maps an ErrorKind onto the containerd error classes so callers can
// branch with errdefs.IsNotFound and friends.
func (k ErrorKind) class() error {
	switch k {
	case ErrDuplicateFlagName, ErrDuplicateAbbreviation:
		return errdefs.ErrAlreadyExists
	case ErrUnknownFlag:
		return errdefs.ErrNotFound
	case ErrResolutionFailed:
		return errdefs.ErrUnavailable
	default:
		return errdefs.ErrInvalidArgument
	}
}

// DeclarationError reports a flag or positional declaration that cannot be
// used for parsing.
type DeclarationError struct {
	Kind         ErrorKind
	Flag         string // flag name, empty for positional declarations
	Other        string // the earlier flag holding the same abbreviation
	Abbreviation rune
	Position     int  // positional index for ErrInvalidKind, -1 for flags
	Type         Kind // offending kind for ErrInvalidKind
}

func (e *DeclarationError) Error() string {
	switch e.Kind {
	case ErrDuplicateFlagName:
		return fmt.Sprintf("flag --%s is declared more than once", e.Flag)
	case ErrDuplicateAbbreviation:
		return fmt.Sprintf("abbreviation -%c is declared by both --%s and --%s", e.Abbreviation, e.Other, e.Flag)
	case ErrInvalidFlagName:
		return fmt.Sprintf("flag name %q must be non-empty and contain only letters, digits and '-'", e.Flag)
	case ErrInvalidAbbreviation:
		return fmt.Sprintf("flag --%s has invalid abbreviation %q", e.Flag, e.Abbreviation)
	case ErrInvalidKind:
		if e.Position >= 0 {
			return fmt.Sprintf("positional argument %d has unknown kind %s", e.Position, e.Type)
		}
		return fmt.Sprintf("flag --%s has unknown kind %s", e.Flag, e.Type)
	}
	return fmt.Sprintf("invalid declaration (%s)", e.Kind)
}

func (e *DeclarationError) Unwrap() error { return e.Kind.class() }

// ParseError reports why an argument list could not be turned into an
// ArgumentBag. No partial bag accompanies it.
type ParseError struct {
	Kind     ErrorKind
	Flag     string // full flag name, or the name as written for ErrUnknownFlag
	Token    string // offending raw token
	Expected Kind   // declared kind of the slot being filled
	Position int    // index into argv, -1 when not tied to a token
	Index    int    // positional ordinal, -1 for flags
	Declared int    // number of declared positionals, for ErrTooManyPositionals
	Host     string // host that failed to resolve
	Err      error
}

func (e *ParseError) Error() string {
	var msg string
	switch e.Kind {
	case ErrNoArguments:
		msg = "argument list is empty, expected at least the binary name"
	case ErrUnknownFlag:
		msg = fmt.Sprintf("%s does not match any declared flag", e.Token)
	case ErrMissingFlagValue:
		msg = fmt.Sprintf("--%s needs a value", e.Flag)
	case ErrInvalidValue:
		msg = fmt.Sprintf("%q is not a valid %s", e.Token, e.Expected)
	case ErrResolutionFailed:
		msg = fmt.Sprintf("cannot resolve host %q in %q", e.Host, e.Token)
	case ErrTooManyPositionals:
		msg = fmt.Sprintf("too many positional arguments: %q would be argument %d, %d declared", e.Token, e.Index+1, e.Declared)
	default:
		msg = fmt.Sprintf("parse error (%s)", e.Kind)
	}
	switch {
	case e.Kind == ErrMissingFlagValue || e.Kind == ErrUnknownFlag:
	case e.Flag != "":
		msg = fmt.Sprintf("--%s: %s", e.Flag, msg)
	case e.Index >= 0 && e.Kind != ErrTooManyPositionals:
		msg = fmt.Sprintf("positional argument %d: %s", e.Index, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.class()}
	}
	return []error{e.Kind.class(), e.Err}
}

// KindOf returns the ErrorKind carried by err, or "" when err did not come
// from this package.
func KindOf(err error) ErrorKind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	var de *DeclarationError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func invalidValue(kind Kind, token string, cause error) *ParseError {
	return &ParseError{Kind: ErrInvalidValue, Token: token, Expected: kind, Position: -1, Index: -1, Err: cause}
}

func resolutionFailed(host, token string, cause error) *ParseError {
	return &ParseError{Kind: ErrResolutionFailed, Token: token, Expected: KindSocket, Host: host, Position: -1, Index: -1, Err: cause}
}

// located fills in where a coercion error happened. Errors that are not a
// *ParseError are returned unchanged.
func located(err error, flag string, position, index int) error {
	var pe *ParseError
	if !errors.As(err, &pe) {
		return err
	}
	pe.Flag = flag
	pe.Position = position
	pe.Index = index
	return pe
}
