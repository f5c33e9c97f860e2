package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtroode/taskmanager/internal/cli"
)

var buildVersion = "N/A" // set by ldflags

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, buildVersion, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
