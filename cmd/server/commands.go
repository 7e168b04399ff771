package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/phrazzld/nutri-api/internal/config"
	"github.com/phrazzld/nutri-api/internal/nutrition"
	"github.com/phrazzld/nutri-api/internal/platform/logger"
	"github.com/phrazzld/nutri-api/internal/platform/postgres"
	"github.com/phrazzld/nutri-api/internal/redact"
	cli "github.com/urfave/cli/v3"
)

func newServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the HTTP server",
		Action: func(ctx context.Context, _ *cli.Command) error {
			cfg, l, err := loadAppConfig(os.Stdout)
			if err != nil {
				return err
			}

			app, err := newApplication(ctx, cfg, l)
			if err != nil {
				return err
			}
			defer app.cleanup()

			return app.startHTTPServer(ctx, app.setupRouter())
		},
	}
}

func newInvokeCommand() *cli.Command {
	return &cli.Command{
		Name:      "invoke",
		Usage:     "Run one flow with a JSON request and print the JSON response",
		ArgsUsage: "<flow>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "File holding the JSON request, or - for stdin",
				Value:   "-",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := cmd.Args().First()
			if name == "" {
				return fmt.Errorf("flow name is required")
			}

			in, closeInput, err := openInput(cmd.String("input"), cmd.Root().Reader)
			if err != nil {
				return err
			}
			defer closeInput()

			// stdout carries the response, so logs go to stderr
			cfg, l, err := loadAppConfig(cmd.Root().ErrWriter)
			if err != nil {
				return err
			}

			app, err := newApplication(ctx, cfg, l)
			if err != nil {
				return err
			}
			defer app.cleanup()

			return app.invokeFlow(ctx, name, in, cmd.Root().Writer)
		},
	}
}

func newFlowsCommand() *cli.Command {
	return &cli.Command{
		Name:  "flows",
		Usage: "List the available flows",
		Action: func(_ context.Context, cmd *cli.Command) error {
			return writeFlowList(cmd.Root().Writer)
		},
	}
}

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:      "migrate",
		Usage:     "Manage the run journal schema",
		ArgsUsage: "<up|down|status|version>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Run journal database URL",
				Required: true,
				Sources:  cli.EnvVars(config.EnvPrefix + "_DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars(config.EnvPrefix + "_SERVER_LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			command := cmd.Args().First()
			if command == "" {
				command = postgres.MigrateStatus
			}

			l, err := logger.Setup(config.ServerConfig{LogLevel: cmd.String("log-level")})
			if err != nil {
				return err
			}

			db, err := postgres.Open(ctx, cmd.String("database-url"))
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					l.Error("failed to close database connection", "error", err)
				}
			}()

			return postgres.Migrate(ctx, db, command, l)
		},
	}
}

// openInput opens path, treating "-" as stdin.
func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// invokeFlow decodes one JSON request from in, runs the flow and writes the
// indented response to out.
func (app *application) invokeFlow(ctx context.Context, name string, in io.Reader, out io.Writer) error {
	f, err := app.service.Registry().Get(name)
	if err != nil {
		return err
	}

	var body any
	if err := json.NewDecoder(in).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode request JSON: %w", err)
	}

	resp, err := f.Invoke(ctx, body)
	if err != nil {
		return fmt.Errorf("flow %s failed: %s", name, redact.Error(err))
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// writeFlowList prints every flow name with its description.
func writeFlowList(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, def := range nutrition.Definitions() {
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", def.Name, def.Description); err != nil {
			return err
		}
	}
	return tw.Flush()
}
