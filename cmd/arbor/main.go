package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/danieljhkim/arbor/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}
