package argsctl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TheGrizzlyDev/argsort/internal/pkg/args"
	"github.com/TheGrizzlyDev/argsort/internal/pkg/decl"
)

// CheckResult is the JSON payload of a successful check.
type CheckResult struct {
	Positionals []args.Kind `json:"positionals"`
	Flags       []decl.Flag `json:"flags"`
}

func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check <declaration>",
		Short: "Validate a declaration file",
		Long: `Load a JSON or YAML declaration, validate it against the declaration
schema and run the duplicate name and abbreviation checks.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, argv []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			p, d, err := loadParser(argv[0])
			if err != nil {
				return declarationFailure(formatter, err)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%s: %d positional(s), %d flag(s)", argv[0], len(d.Positionals), len(d.Flags))
			for i, k := range p.Positionals() {
				fmt.Fprintf(&b, "\n  %d <%s>", i, k)
			}
			for _, f := range p.Flags() {
				fmt.Fprintf(&b, "\n  %s", f)
			}
			flags := d.Flags
			if flags == nil {
				flags = []decl.Flag{}
			}
			positionals := d.Positionals
			if positionals == nil {
				positionals = []args.Kind{}
			}
			return formatter.Success(CheckResult{Positionals: positionals, Flags: flags}, b.String())
		},
	}
}

func loadParser(path string, opts ...args.Option) (*args.Parser, *decl.Declaration, error) {
	d, err := decl.Load(path)
	if err != nil {
		return nil, nil, err
	}
	p, err := d.Parser(opts...)
	if err != nil {
		return nil, nil, err
	}
	return p, d, nil
}

// declarationFailure reports every problem in err and returns an
// ExitCommandError.
func declarationFailure(formatter *OutputFormatter, err error) error {
	for _, p := range declarationProblems(err) {
		code := "invalid_declaration"
		if k := args.KindOf(p); k != "" {
			code = string(k)
		}
		if werr := formatter.Error(code, p.Error()); werr != nil {
			return werr
		}
	}
	return WrapExitError(ExitCommandError, "declaration rejected", err)
}

// declarationProblems splits a joined set of declaration errors so each one
// gets its own line.
func declarationProblems(err error) []error {
	j, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}
	errs := j.Unwrap()
	for _, e := range errs {
		var de *args.DeclarationError
		if !errors.As(e, &de) {
			return []error{err}
		}
	}
	return errs
}
