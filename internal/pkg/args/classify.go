package args

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/containerd/log"
)

const terminator = "--"

// flagRef is a token written as a flag reference, before it is matched
// against the declared flags.
type flagRef struct {
	token  string
	name   string // long name, or the abbreviation as a string
	short  bool
	value  string
	inline bool
}

// splitFlagRef reports whether tok is written as a flag reference:
//
//	--name, --name=value, -c, -c=value
//
// "-" and "--" are not references, nor is a single-dash token whose body is
// longer than one rune. "-5" is a reference like any other "-c"; negative
// single digits go inline as --name=-5.
func splitFlagRef(tok string) (flagRef, bool) {
	if tok == terminator || !strings.HasPrefix(tok, "-") || len(tok) < 2 {
		return flagRef{}, false
	}
	if strings.HasPrefix(tok, "--") {
		name, value, inline := strings.Cut(tok[2:], "=")
		return flagRef{token: tok, name: name, value: value, inline: inline}, true
	}
	head, value, inline := strings.Cut(tok[1:], "=")
	if utf8.RuneCountInString(head) != 1 {
		return flagRef{}, false
	}
	return flagRef{token: tok, name: head, short: true, value: value, inline: inline}, true
}

// looksLikeFlag decides whether tok can serve as the value of a preceding
// flag.
func (p *Parser) looksLikeFlag(tok string) bool {
	if tok == terminator {
		return true
	}
	_, ok := splitFlagRef(tok)
	return ok
}

func (p *Parser) lookup(ref flagRef, position int) (FlagDefinition, error) {
	var (
		def FlagDefinition
		ok  bool
	)
	if ref.short {
		r, _ := utf8.DecodeRuneInString(ref.name)
		def, ok = p.byAbbrev[r]
	} else {
		def, ok = p.byName[ref.name]
	}
	if !ok {
		return FlagDefinition{}, &ParseError{Kind: ErrUnknownFlag, Flag: ref.name, Token: ref.token, Position: position, Index: -1}
	}
	return def, nil
}

// classify walks argv[1:] once, coercing each flag value and positional as
// it is met so the first error in reading order is the one reported.
func (p *Parser) classify(ctx context.Context, argv []string, bag *ArgumentBag) error {
	terminated := false
	for i := 1; i < len(argv); i++ {
		tok := argv[i]

		if !terminated && tok == terminator {
			terminated = true
			continue
		}

		ref, isFlag := flagRef{}, false
		if !terminated {
			ref, isFlag = splitFlagRef(tok)
		}
		if !isFlag {
			if err := p.addPositional(ctx, bag, tok, i); err != nil {
				return err
			}
			continue
		}

		def, err := p.lookup(ref, i)
		if err != nil {
			return err
		}

		var raw string
		switch {
		case ref.inline:
			raw = ref.value
		case def.Kind == KindBool:
			bag.named[def.Name] = Bool(true)
			log.G(ctx).WithFields(log.Fields{"flag": def.Name, "token": tok}).Debug("set bool flag")
			continue
		default:
			if i+1 >= len(argv) || p.looksLikeFlag(argv[i+1]) {
				return &ParseError{Kind: ErrMissingFlagValue, Flag: def.Name, Token: tok, Expected: def.Kind, Position: i, Index: -1}
			}
			i++
			raw = argv[i]
		}

		v, err := p.coerce(ctx, def.Kind, raw)
		if err != nil {
			return located(err, def.Name, i, -1)
		}
		if prev, seen := bag.named[def.Name]; seen {
			log.G(ctx).WithFields(log.Fields{"flag": def.Name, "previous": prev.String()}).Debug("flag repeated, keeping last value")
		}
		bag.named[def.Name] = v
		log.G(ctx).WithFields(log.Fields{"flag": def.Name, "token": tok, "kind": def.Kind}).Debug("set flag")
	}
	return nil
}

func (p *Parser) addPositional(ctx context.Context, bag *ArgumentBag, tok string, position int) error {
	index := len(bag.positionals)
	if index >= len(p.positionals) {
		return &ParseError{Kind: ErrTooManyPositionals, Token: tok, Position: position, Index: index, Declared: len(p.positionals)}
	}
	kind := p.positionals[index]
	v, err := p.coerce(ctx, kind, tok)
	if err != nil {
		return located(err, "", position, index)
	}
	bag.positionals = append(bag.positionals, v)
	log.G(ctx).WithFields(log.Fields{"index": index, "token": tok, "kind": kind}).Debug("set positional")
	return nil
}
