package args

import (
	"context"
	"errors"
	"net/netip"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fakeResolver answers from a fixed table and counts lookups.
type fakeResolver struct {
	hosts map[string][]netip.Addr
	err   error
	calls atomic.Int32
}

func (f *fakeResolver) LookupNetIP(_ context.Context, _, host string) ([]netip.Addr, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	addrs, ok := f.hosts[host]
	if !ok {
		return nil, errors.New("no such host")
	}
	return addrs, nil
}

// blockingResolver never answers and ignores ctx.
type blockingResolver struct{}

func (blockingResolver) LookupNetIP(context.Context, string, string) ([]netip.Addr, error) {
	select {}
}

func newFakeResolver() *fakeResolver {
	return &fakeResolver{hosts: map[string][]netip.Addr{
		"www.example.com": {netip.MustParseAddr("104.18.26.120"), netip.MustParseAddr("104.18.27.120")},
		"v6only.test":     {netip.MustParseAddr("2001:db8::1")},
		"mapped.test":     {netip.MustParseAddr("::ffff:10.0.0.7")},
		"empty.test":      {},
	}}
}

var bagCmp = cmp.Options{
	cmp.AllowUnexported(ArgumentBag{}),
	cmp.Comparer(func(a, b netip.AddrPort) bool { return a == b }),
}

func mustParser(t *testing.T, positionals []Kind, flags []FlagDefinition, opts ...Option) *Parser {
	t.Helper()
	p, err := NewParser(positionals, flags, opts...)
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	return p
}

func mustParse(t *testing.T, p *Parser, argv ...string) *ArgumentBag {
	t.Helper()
	bag, err := p.Parse(context.Background(), argv)
	if err != nil {
		t.Fatalf("Parse(%q): %v", argv, err)
	}
	return bag
}

func mustParseError(t *testing.T, err error, want ErrorKind) *ParseError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error kind=%q, got nil", want)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if pe.Kind != want {
		t.Fatalf("expected kind=%q, got %q (%v)", want, pe.Kind, err)
	}
	return pe
}
