package decl

import (
	"unicode/utf8"

	"github.com/TheGrizzlyDev/argsort/internal/pkg/args"
)

// Declaration is the file form of what args.NewParser takes.
type Declaration struct {
	Positionals []args.Kind `json:"positionals,omitempty" yaml:"positionals,omitempty"`
	Flags       []Flag      `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// Flag describes one named argument.
type Flag struct {
	Name         string    `json:"name" yaml:"name"`
	Abbreviation string    `json:"abbreviation,omitempty" yaml:"abbreviation,omitempty"`
	Kind         args.Kind `json:"kind" yaml:"kind"`
}

func (f Flag) Definition() args.FlagDefinition {
	var abbrev rune
	if f.Abbreviation != "" {
		abbrev, _ = utf8.DecodeRuneInString(f.Abbreviation)
	}
	return args.FlagDefinition{Name: f.Name, Abbreviation: abbrev, Kind: f.Kind}
}

func (d *Declaration) Definitions() []args.FlagDefinition {
	defs := make([]args.FlagDefinition, 0, len(d.Flags))
	for _, f := range d.Flags {
		defs = append(defs, f.Definition())
	}
	return defs
}

// Parser builds an args.Parser, which runs the duplicate name and
// abbreviation checks the schema cannot express.
func (d *Declaration) Parser(opts ...args.Option) (*args.Parser, error) {
	return args.NewParser(d.Positionals, d.Definitions(), opts...)
}
