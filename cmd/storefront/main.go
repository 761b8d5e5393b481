package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nikolayk812/storefront/internal/apperr"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, rt := newRootCmd()
	err := root.ExecuteContext(ctx)
	if cerr := rt.close(); cerr != nil {
		slog.Warn("close failed", "error", cerr)
	}

	if err != nil {
		printError(err)
		stop()
		os.Exit(1)
	}
}

func printError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", apperr.Message(err))

	if ae, ok := apperr.As(err); ok {
		for field, msg := range ae.Fields {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
		}
		return
	}
	fmt.Fprintln(os.Stderr, " ", err)
}
