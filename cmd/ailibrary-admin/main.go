package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dalemusser/ailibrary/internal/app/admincli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := admincli.Main(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
