package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/takak2166/limitless2md/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli.Main(ctx)
}
