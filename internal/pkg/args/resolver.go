package args

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"time"

	"github.com/containerd/log"
)

// DefaultResolveTimeout bounds every hostname lookup made for a Socket value.
const DefaultResolveTimeout = 5 * time.Second

var errNoRecords = errors.New("no address records")

// Resolver turns a hostname into addresses. *net.Resolver satisfies it.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

var _ Resolver = (*net.Resolver)(nil)

type lookupResult struct {
	addrs []netip.Addr
	err   error
}

// resolve returns the first address for host. The lookup runs on its own
// goroutine so a resolver that ignores ctx still cannot outlive the timeout.
func (p *Parser) resolve(ctx context.Context, host string) (netip.Addr, error) {
	ctx, cancel := context.WithTimeout(ctx, p.resolveTimeout)
	defer cancel()

	done := make(chan lookupResult, 1)
	go func() {
		addrs, err := p.resolver.LookupNetIP(ctx, "ip", host)
		done <- lookupResult{addrs: addrs, err: err}
	}()

	var res lookupResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return netip.Addr{}, ctx.Err()
	}
	if res.err != nil {
		return netip.Addr{}, res.err
	}
	if len(res.addrs) == 0 {
		return netip.Addr{}, errNoRecords
	}
	addr := res.addrs[0].Unmap()
	log.G(ctx).WithFields(log.Fields{"host": host, "addr": addr, "candidates": len(res.addrs)}).Debug("resolved socket host")
	return addr, nil
}
