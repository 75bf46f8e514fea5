// Package args classifies command-line tokens into typed positional and named
// values.
//
// A caller declares the kinds of the positional arguments it expects and the
// flags it accepts, then hands over argv:
//
//	bag, err := args.GatherCommandLineFlags(
//	    []args.Kind{args.KindPath},
//	    []args.FlagDefinition{
//	        {Name: "target", Abbreviation: 't', Kind: args.KindSocket},
//	        {Name: "verbose", Abbreviation: 'v', Kind: args.KindBool},
//	    },
//	)
//
// Flags may appear anywhere among the positionals, as --name value,
// --name=value, -n value or -n=value. Bool flags take no value. Missing
// positionals are not an error; callers decide what is mandatory.
package args

import (
	"context"
	"net"
	"os"
	"slices"
	"time"

	"github.com/containerd/log"
)

type Option func(*Parser)

// WithResolver replaces net.DefaultResolver for Socket hostnames.
func WithResolver(r Resolver) Option {
	return func(p *Parser) {
		if r != nil {
			p.resolver = r
		}
	}
}

// WithResolveTimeout bounds each hostname lookup. Non-positive values keep
// DefaultResolveTimeout.
func WithResolveTimeout(d time.Duration) Option {
	return func(p *Parser) {
		if d > 0 {
			p.resolveTimeout = d
		}
	}
}

// Parser holds a checked declaration. It is immutable and may be shared
// between goroutines.
type Parser struct {
	positionals []Kind
	flags       []FlagDefinition
	byName      map[string]FlagDefinition
	byAbbrev    map[rune]FlagDefinition

	resolver       Resolver
	resolveTimeout time.Duration
}

// NewParser checks the declaration and returns a Parser for it. Declaration
// problems are returned as *DeclarationError values (joined when there are
// several) before any argument is looked at.
func NewParser(positionals []Kind, flags []FlagDefinition, opts ...Option) (*Parser, error) {
	if err := validateDeclaration(positionals, flags); err != nil {
		return nil, err
	}
	p := &Parser{
		positionals:    slices.Clone(positionals),
		flags:          slices.Clone(flags),
		byName:         make(map[string]FlagDefinition, len(flags)),
		byAbbrev:       make(map[rune]FlagDefinition, len(flags)),
		resolver:       net.DefaultResolver,
		resolveTimeout: DefaultResolveTimeout,
	}
	for _, d := range flags {
		p.byName[d.Name] = d
		if d.Abbreviation != 0 {
			p.byAbbrev[d.Abbreviation] = d
		}
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Parser) Positionals() []Kind { return slices.Clone(p.positionals) }

func (p *Parser) Flags() []FlagDefinition { return slices.Clone(p.flags) }

// Parse classifies argv, whose first element is the binary name. It stops at
// the first error and never returns a partial bag.
func (p *Parser) Parse(ctx context.Context, argv []string) (*ArgumentBag, error) {
	if len(argv) == 0 {
		return nil, &ParseError{Kind: ErrNoArguments, Position: -1, Index: -1}
	}
	bag := &ArgumentBag{
		binary: argv[0],
		named:  make(map[string]Variant),
	}
	if err := p.classify(ctx, argv, bag); err != nil {
		log.G(ctx).WithError(err).Debug("argument parsing failed")
		return nil, err
	}
	return bag, nil
}

// Parse is NewParser followed by Parser.Parse.
func Parse(ctx context.Context, argv []string, positionals []Kind, flags []FlagDefinition, opts ...Option) (*ArgumentBag, error) {
	p, err := NewParser(positionals, flags, opts...)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, argv)
}

// GatherCommandLineFlags parses the arguments of the running process.
func GatherCommandLineFlags(positionals []Kind, flags []FlagDefinition, opts ...Option) (*ArgumentBag, error) {
	return Parse(context.Background(), os.Args, positionals, flags, opts...)
}
