// Command safevoice runs the SafeVoice API server, manages its database and
// talks to a running server from the terminal.
//
// @title                      SafeVoice API
// @version                    1.0
// @description                Anonymous stories, reactions, testimonials and the NGO directory.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/safevoice/safevoice-api/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	app := &cli.App{
		Name:    "safevoice",
		Usage:   "SafeVoice API server and command-line client",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "dotenv file loaded before reading the environment",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "info",
			},
			&cli.BoolFlag{
				Name:    "log-pretty",
				Usage:   "human-readable console logs",
				EnvVars: []string{"LOG_PRETTY"},
			},
		},
		Before: func(c *cli.Context) error {
			if err := godotenv.Load(c.String("env-file")); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			// LOG_LEVEL may come from the dotenv file loaded above.
			level := sysutil.FirstNonEmpty(os.Getenv("LOG_LEVEL"), c.String("log-level"))
			pretty := c.Bool("log-pretty") || sysutil.IsTruthy(os.Getenv("LOG_PRETTY"))
			sysutil.InitLogger(level, pretty, os.Stderr)
			return nil
		},
		Commands: []*cli.Command{
			serveCommand,
			migrateCommand,
			seedCommand,
			ngoRequestsCommand,
			clientCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("safevoice failed")
	}
}
