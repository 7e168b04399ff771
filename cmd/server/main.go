// Package main implements the nutri-api command: an HTTP server exposing
// the nutrition AI flows, plus commands to invoke a single flow, list the
// flows, and manage the run journal schema.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := loadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load .env: %v\n", err)
		os.Exit(1)
	}

	if err := newRootCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "nutri-api: %v\n", err)
		os.Exit(1)
	}
}

// loadDotEnv loads path into the environment when it exists. Variables that
// are already set win.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:      "nutri-api",
		Usage:     "Nutrition AI flows over HTTP",
		Reader:    os.Stdin,
		Writer:    os.Stdout,
		ErrWriter: os.Stderr,
		Commands: []*cli.Command{
			newServeCommand(),
			newInvokeCommand(),
			newFlowsCommand(),
			newMigrateCommand(),
		},
	}
}
