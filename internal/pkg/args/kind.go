package args

import (
	"fmt"
	"strings"

	"github.com/containerd/errdefs"
)

// Kind names the type a token is coerced into. It carries no value; parsing a
// token of a given Kind produces the matching Variant.
type Kind uint8

const (
	KindString Kind = iota + 1
	KindInt
	KindFloat
	KindPath
	KindSocket
	KindBool
)

var kindNames = [...]string{
	KindString: "string",
	KindInt:    "int",
	KindFloat:  "float",
	KindPath:   "path",
	KindSocket: "socket",
	KindBool:   "bool",
}

// Kinds lists every valid Kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindString, KindInt, KindFloat, KindPath, KindSocket, KindBool}
}

func (k Kind) valid() bool {
	return k >= KindString && k <= KindBool
}

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kindNames[k]
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	name := strings.TrimSpace(s)
	for _, k := range Kinds() {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown kind %q", errdefs.ErrInvalidArgument, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("%w: cannot marshal %s", errdefs.ErrInvalidArgument, k)
	}
	return []byte(kindNames[k]), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
