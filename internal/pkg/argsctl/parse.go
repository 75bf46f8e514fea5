package argsctl

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/TheGrizzlyDev/argsort/internal/pkg/args"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	Declaration    string
	ResolveTimeout time.Duration

	// resolver replaces DNS lookups in tests.
	resolver args.Resolver
}

// Value is one classified argument in JSON output.
type Value struct {
	Kind  args.Kind `json:"kind"`
	Value string    `json:"value"`
	Host  string    `json:"host,omitempty"`
}

// ParseResult is the JSON payload of a successful parse.
type ParseResult struct {
	Binary      string           `json:"binary"`
	Positionals []Value          `json:"positionals"`
	Named       map[string]Value `json:"named"`
	CommandLine []string         `json:"command_line"`
}

func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	return newParseCommand(rootOpts, &ParseOptions{})
}

func newParseCommand(rootOpts *RootOptions, opts *ParseOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse --decl <file> -- <binary> [args...]",
		Short: "Classify a command line against a declaration",
		Long: `Parse the given argument vector, binary name first, against a declaration
and print the typed positionals and named values.

Exit status is 1 when the command line is rejected and 2 when the
declaration itself is unusable.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, argv []string) error {
			return runParse(cmd, rootOpts, opts, argv)
		},
	}

	cmd.Flags().StringVarP(&opts.Declaration, "decl", "d", "", "declaration file (.json, .yaml or .yml)")
	cmd.Flags().DurationVar(&opts.ResolveTimeout, "resolve-timeout", args.DefaultResolveTimeout, "limit on each socket host lookup")
	_ = cmd.MarkFlagRequired("decl")
	// Everything from the binary name on belongs to the parsed command line.
	cmd.Flags().SetInterspersed(false)

	return cmd
}

func runParse(cmd *cobra.Command, rootOpts *RootOptions, opts *ParseOptions, argv []string) error {
	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

	parserOpts := []args.Option{args.WithResolveTimeout(opts.ResolveTimeout)}
	if opts.resolver != nil {
		parserOpts = append(parserOpts, args.WithResolver(opts.resolver))
	}
	p, _, err := loadParser(opts.Declaration, parserOpts...)
	if err != nil {
		return declarationFailure(formatter, err)
	}

	bag, err := p.Parse(cmd.Context(), argv)
	if err != nil {
		code := "parse_error"
		if k := args.KindOf(err); k != "" {
			code = string(k)
		}
		if werr := formatter.Error(code, err.Error()); werr != nil {
			return werr
		}
		return WrapExitError(ExitFailure, "command line rejected", err)
	}

	result := ParseResult{
		Binary:      bag.Binary(),
		Positionals: []Value{},
		Named:       map[string]Value{},
		CommandLine: bag.CommandLine(),
	}
	var b strings.Builder
	b.WriteString(bag.Binary())
	for i, v := range bag.Positionals() {
		result.Positionals = append(result.Positionals, valueOf(v))
		fmt.Fprintf(&b, "\n  %d <%s> %s", i, v.Kind(), v)
	}
	for _, name := range bag.Names() {
		v, _ := bag.Named(name)
		result.Named[name] = valueOf(v)
		fmt.Fprintf(&b, "\n  --%s <%s> %s", name, v.Kind(), v)
	}
	return formatter.Success(result, b.String())
}

func valueOf(v args.Variant) Value {
	out := Value{Kind: v.Kind(), Value: v.String()}
	if s, ok := v.(args.Socket); ok {
		out.Host = s.Host
	}
	return out
}
