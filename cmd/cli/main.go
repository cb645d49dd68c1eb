package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/yourusername/yt-transfer/internal/infrastructure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr, defaultDependencies())
	stop()
	os.Exit(code)
}

// execute runs one CLI invocation and returns the process exit code
func execute(ctx context.Context, args []string, stdout, stderr io.Writer, deps dependencies) int {
	root := newRootCommand(newCLIContext(stdout, stderr, deps))
	root.SetArgs(rewriteLegacyArgs(root, args))

	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			infrastructure.PrintError(stderr, err)
		}
		return 1
	}
	return 0
}
