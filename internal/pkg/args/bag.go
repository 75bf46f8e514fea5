package args

import (
	"maps"
	"slices"
	"strings"
)

// ArgumentBag is the result of one parse: the binary name, the positional
// values in order, and the named values keyed by full flag name. It does not
// change after Parse returns it.
type ArgumentBag struct {
	binary      string
	positionals []Variant
	named       map[string]Variant
}

// Binary returns argv[0] as given.
func (b *ArgumentBag) Binary() string { return b.binary }

// Positional returns the index-th positional value. Index 0 is the first
// argument after the binary name, with flags skipped.
func (b *ArgumentBag) Positional(index int) (Variant, bool) {
	if index < 0 || index >= len(b.positionals) {
		return nil, false
	}
	return b.positionals[index], true
}

// Named returns the value of the flag declared as name. Flags that were not
// supplied, declared or not, are absent.
func (b *ArgumentBag) Named(name string) (Variant, bool) {
	v, ok := b.named[name]
	return v, ok
}

// Flag reports whether the Bool flag name was set to true. An absent flag is
// false.
func (b *ArgumentBag) Flag(name string) bool {
	v, ok := b.named[name].(Bool)
	return ok && bool(v)
}

// Len returns the number of positional values supplied.
func (b *ArgumentBag) Len() int { return len(b.positionals) }

func (b *ArgumentBag) Positionals() []Variant { return slices.Clone(b.positionals) }

// Names returns the supplied flag names, sorted.
func (b *ArgumentBag) Names() []string { return slices.Sorted(maps.Keys(b.named)) }

// CommandLine renders the bag as a canonical argv: the binary, every named
// value as --name=value in name order, then the positionals. A "--" separates
// the two when a positional would otherwise read as a flag.
func (b *ArgumentBag) CommandLine() []string {
	argv := make([]string, 0, 2+len(b.named)+len(b.positionals))
	argv = append(argv, b.binary)
	for _, name := range b.Names() {
		v := b.named[name]
		if bv, ok := v.(Bool); ok && bool(bv) {
			argv = append(argv, "--"+name)
			continue
		}
		argv = append(argv, "--"+name+"="+v.String())
	}
	for _, v := range b.positionals {
		if strings.HasPrefix(v.String(), "-") {
			argv = append(argv, terminator)
			break
		}
	}
	for _, v := range b.positionals {
		argv = append(argv, v.String())
	}
	return argv
}
