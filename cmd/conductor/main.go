// Package main provides a CLI for running self-play matches.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	conductorcmd "github.com/louisbranch/diplomacy.space/internal/cmd/conductor"
)

func main() {
	cfg, err := conductorcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[CONDUCTOR] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := conductorcmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		log.Fatalf("failed to run match: %v", err)
	}
}
