// probe checks that a TCP endpoint accepts connections.
//
//	probe --target db.internal:5432 [--retries 3] [--wait 0.5] [--verbose] [label]
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/netip"
	"os"
	"time"

	"github.com/containerd/log"

	"github.com/TheGrizzlyDev/argsort/internal/pkg/args"
	"github.com/TheGrizzlyDev/argsort/internal/pkg/cli"
)

const (
	exitUnreachable = 1
	exitUsage       = 2

	defaultWait = 1.0 // seconds
)

type probeArgs struct {
	Target  netip.AddrPort `args_flag:"target" args_abbrev:"t"`
	Retries int            `args_flag:"retries" args_abbrev:"r"`
	Wait    float64        `args_flag:"wait" args_abbrev:"w"`
	Verbose bool           `args_flag:"verbose" args_abbrev:"v"`
	Label   string         `args_positional:"0"`
}

func main() {
	os.Exit(run(os.Stdout, os.Stderr))
}

func run(stdout, stderr io.Writer) int {
	opts, err := gather(func(positionals []args.Kind, flags []args.FlagDefinition) (*args.ArgumentBag, error) {
		return args.GatherCommandLineFlags(positionals, flags)
	})
	if err != nil {
		fmt.Fprintf(stderr, "probe: %v\n", err)
		return exitUsage
	}
	if opts.Verbose {
		_ = log.SetLevel("debug")
	}

	if err := probe(context.Background(), opts); err != nil {
		fmt.Fprintf(stderr, "probe: %s: %v\n", opts.Label, err)
		return exitUnreachable
	}
	fmt.Fprintf(stdout, "%s: reachable\n", opts.Label)
	return 0
}

// gather declares probeArgs, parses through parse and checks what the
// declaration cannot express.
func gather(parse func([]args.Kind, []args.FlagDefinition) (*args.ArgumentBag, error)) (probeArgs, error) {
	opts := probeArgs{Retries: 1, Wait: defaultWait}
	positionals, flags, err := cli.Declare(&opts)
	if err != nil {
		return probeArgs{}, err
	}
	bag, err := parse(positionals, flags)
	if err != nil {
		return probeArgs{}, err
	}
	if err := cli.Bind(bag, &opts); err != nil {
		return probeArgs{}, err
	}
	// Nothing can be probed without a target.
	if _, ok := bag.Named("target"); !ok {
		return probeArgs{}, errors.New("--target is required")
	}
	if opts.Wait <= 0 {
		return probeArgs{}, fmt.Errorf("--wait must be positive, got %v", opts.Wait)
	}
	if opts.Label == "" {
		opts.Label = opts.Target.String()
	}
	return opts, nil
}

func probe(ctx context.Context, opts probeArgs) error {
	wait := time.Duration(opts.Wait * float64(time.Second))
	var (
		d       net.Dialer
		lastErr error
	)
	for attempt := 1; attempt <= max(opts.Retries, 1); attempt++ {
		dctx, cancel := context.WithTimeout(ctx, wait)
		conn, err := d.DialContext(dctx, "tcp", opts.Target.String())
		cancel()
		if err == nil {
			return conn.Close()
		}
		lastErr = err
		log.G(ctx).WithFields(log.Fields{"attempt": attempt, "target": opts.Target}).WithError(err).Debug("dial failed")
	}
	return lastErr
}
