package args

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"regexp"
	"strconv"

	"github.com/containerd/log"

	"github.com/TheGrizzlyDev/argsort/internal/pkg/path"
)

type coerceFunc func(ctx context.Context, p *Parser, token string) (Variant, error)

// coercers is indexed by Kind. Bool only reaches its entry through an inline
// "--flag=value"; a bare Bool flag never consumes a token.
var coercers = [...]coerceFunc{
	KindString: coerceString,
	KindInt:    coerceInt,
	KindFloat:  coerceFloat,
	KindPath:   coercePath,
	KindSocket: coerceSocket,
	KindBool:   coerceBool,
}

// floatLiteralRe admits decimal and exponential forms only; strconv alone
// would also take "inf", "nan" and hex floats.
var floatLiteralRe = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)

func (p *Parser) coerce(ctx context.Context, kind Kind, token string) (Variant, error) {
	if !kind.valid() {
		return nil, invalidValue(kind, token, errors.New("undeclared kind"))
	}
	return coercers[kind](ctx, p, token)
}

func coerceString(_ context.Context, _ *Parser, token string) (Variant, error) {
	return String(token), nil
}

func coerceInt(_ context.Context, _ *Parser, token string) (Variant, error) {
	n, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return nil, invalidValue(KindInt, token, unwrapNumError(err))
	}
	return Int(n), nil
}

func coerceFloat(_ context.Context, _ *Parser, token string) (Variant, error) {
	if !floatLiteralRe.MatchString(token) {
		return nil, invalidValue(KindFloat, token, nil)
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil, invalidValue(KindFloat, token, unwrapNumError(err))
	}
	return Float(f), nil
}

func coercePath(ctx context.Context, _ *Parser, token string) (Variant, error) {
	expanded, err := path.ExpandHome(token)
	if err != nil {
		log.G(ctx).WithError(err).WithField("token", token).Debug("keeping path verbatim")
		return Path(token), nil
	}
	return Path(expanded), nil
}

func coerceBool(_ context.Context, _ *Parser, token string) (Variant, error) {
	b, err := strconv.ParseBool(token)
	if err != nil {
		return nil, invalidValue(KindBool, token, unwrapNumError(err))
	}
	return Bool(b), nil
}

func coerceSocket(ctx context.Context, p *Parser, token string) (Variant, error) {
	host, portText, err := net.SplitHostPort(token)
	if err != nil {
		return nil, invalidValue(KindSocket, token, err)
	}
	if host == "" {
		return nil, invalidValue(KindSocket, token, errors.New("missing host"))
	}
	port, err := strconv.ParseUint(portText, 10, 16)
	if err != nil {
		return nil, invalidValue(KindSocket, token, unwrapNumError(err))
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		return Socket{Host: host, Addr: netip.AddrPortFrom(addr, uint16(port))}, nil
	}

	addr, err := p.resolve(ctx, host)
	if err != nil {
		return nil, resolutionFailed(host, token, err)
	}
	return Socket{Host: host, Addr: netip.AddrPortFrom(addr, uint16(port))}, nil
}

// unwrapNumError drops the strconv wrapper, whose message repeats the token.
func unwrapNumError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}
