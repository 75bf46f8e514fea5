package path

import (
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
)

type PathErrorKind string

const (
	ErrNoHome   PathErrorKind = "no_home"
	ErrUserHome PathErrorKind = "user_home"
)

type PathError struct {
	Kind PathErrorKind
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ExpandHome error (%s): %q: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("ExpandHome error (%s): %q", e.Kind, e.Path)
}

func (e *PathError) Unwrap() error { return e.Err }

// lookupHome is swapped out by tests.
var lookupHome = homedir.Dir

// ExpandHome replaces a leading "~" with the invoking user's home directory
// *purely textually*, without touching the filesystem.
//
// Rules:
//   - "~"        → <home>
//   - "~/x"      → <home>/x   (the separator after ~ is kept as written)
//   - "~user/x"  → *PathError ErrUserHome, other users are not looked up
//   - anything not starting with "~" is returned unchanged
//
// Returns *PathError when the home directory cannot be determined. Callers
// that must never fail keep the raw value in that case.
func ExpandHome(raw string) (string, error) {
	if !strings.HasPrefix(raw, "~") {
		return raw, nil
	}
	rest := raw[1:]
	if rest != "" && !os.IsPathSeparator(rest[0]) {
		return "", &PathError{Kind: ErrUserHome, Path: raw}
	}
	home, err := lookupHome()
	if err != nil {
		return "", &PathError{Kind: ErrNoHome, Path: raw, Err: err}
	}
	if home == "" {
		return "", &PathError{Kind: ErrNoHome, Path: raw}
	}
	if rest == "" {
		return home, nil
	}
	return trimTrailingSeparators(home) + rest, nil
}

func trimTrailingSeparators(s string) string {
	for len(s) > 0 && os.IsPathSeparator(s[len(s)-1]) {
		s = s[:len(s)-1]
	}
	return s
}
