package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		stop()
		os.Exit(1)
	}
}

// run executes one command line. Errors the UI has not already shown as an
// alert are printed to stderr.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{ui: newTerminalUI(stdin, stdout)}
	root := newRootCmd(a, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err != nil && !a.ui.alerted {
		fmt.Fprintln(stderr, "taskdash:", err)
	}
	return err
}
