// Package main starts the registry admin command.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	admincmd "github.com/medinex-ai/registry/internal/cmd/admin"
	platformcmd "github.com/medinex-ai/registry/internal/platform/cmd"
)

func main() {
	cfg, args, err := admincmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[ADMIN] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceAdmin, func(ctx context.Context) error {
		return admincmd.Run(ctx, cfg, args, os.Stdout)
	})
	if err != nil {
		log.Fatalf("admin: %v", err)
	}
}
