package main

import (
	"context"
	"fmt"
	"os"

	"github.com/TheGrizzlyDev/argsort/internal/pkg/argsctl"
)

func main() {
	cmd := argsctl.NewRootCommand()
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "argsctl: %v\n", err)
		os.Exit(argsctl.GetExitCode(err))
	}
}
