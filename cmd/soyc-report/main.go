package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/compile-report/cmd/soyc-report/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cmd.Execute(ctx)
	stop()
	os.Exit(code)
}
