package args

import (
	"cmp"
	"net/netip"
	"strconv"
	"strings"
)

var (
	_ Variant = String("")
	_ Variant = Int(0)
	_ Variant = Float(0)
	_ Variant = Path("")
	_ Variant = Socket{}
	_ Variant = Bool(false)
)

// Variant is a coerced argument value. The set of implementations is closed;
// use a type switch to get at the Go value.
type Variant interface {
	Kind() Kind
	String() string
	variant()
}

// String is a token kept verbatim.
type String string

func (String) Kind() Kind       { return KindString }
func (s String) String() string { return string(s) }
func (String) variant()         {}

// Int is a signed base-10 integer in the int64 range.
type Int int64

func (Int) Kind() Kind       { return KindInt }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (Int) variant()         {}

// Float is a decimal or exponential literal in the float64 range.
type Float float64

func (Float) Kind() Kind       { return KindFloat }
func (f Float) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (Float) variant()         {}

// Path is a filesystem path with a leading "~" expanded. It is never checked
// for existence.
type Path string

func (Path) Kind() Kind       { return KindPath }
func (p Path) String() string { return string(p) }
func (Path) variant()         {}

// Socket is a concrete address and port. Host keeps the host as it was
// written, which is the hostname when Addr came from resolution.
type Socket struct {
	Host string
	Addr netip.AddrPort
}

func (Socket) Kind() Kind       { return KindSocket }
func (s Socket) String() string { return s.Addr.String() }
func (Socket) variant()         {}

// Port is a shorthand for s.Addr.Port().
func (s Socket) Port() uint16 { return s.Addr.Port() }

// Bool is set by the presence of a flag.
type Bool bool

func (Bool) Kind() Kind       { return KindBool }
func (b Bool) String() string { return strconv.FormatBool(bool(b)) }
func (Bool) variant()         {}

// precedence orders kinds for Compare.
var precedence = [...]int{
	KindBool:   0,
	KindInt:    1,
	KindFloat:  2,
	KindSocket: 3,
	KindPath:   4,
	KindString: 5,
}

// Compare orders variants by kind, Bool < Int < Float < Socket < Path < String,
// then by value within a kind. It returns -1, 0 or +1 like cmp.Compare.
func Compare(a, b Variant) int {
	if c := cmp.Compare(precedence[a.Kind()], precedence[b.Kind()]); c != 0 {
		return c
	}
	switch x := a.(type) {
	case Bool:
		y := b.(Bool)
		switch {
		case x == y:
			return 0
		case !bool(x):
			return -1
		}
		return 1
	case Int:
		return cmp.Compare(x, b.(Int))
	case Float:
		return cmp.Compare(x, b.(Float))
	case Socket:
		return x.Addr.Compare(b.(Socket).Addr)
	case Path:
		return strings.Compare(string(x), string(b.(Path)))
	case String:
		return strings.Compare(string(x), string(b.(String)))
	}
	return 0
}
