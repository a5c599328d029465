package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/photometa/iim"
)

var (
	format     string
	scanWindow int64
	xmlRoot    string
	sqlTable   string
	configFile string
	quiet      bool
	verbose    bool
)

func main() {
	app := &cli.Command{
		Name:      "iimdump",
		Usage:     "Dump IPTC IIM metadata from image files",
		ArgsUsage: "file...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "output format (text, json, xml, sql)",
				Value:       "text",
				Destination: &format,
			},
			&cli.Int64Flag{
				Name:        "window",
				Usage:       "how far into each file to look for the first record",
				Value:       iim.DefaultScanWindow,
				Destination: &scanWindow,
			},
			&cli.StringFlag{
				Name:        "root",
				Usage:       "root element name for xml output",
				Value:       "photo",
				Destination: &xmlRoot,
			},
			&cli.StringFlag{
				Name:        "table",
				Usage:       "table name for sql output",
				Value:       "photo",
				Destination: &sqlTable,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to config file",
				Destination: &configFile,
			},
			&cli.BoolFlag{
				Name:        "quiet",
				Aliases:     []string{"q"},
				Usage:       "only log errors",
				Destination: &quiet,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Aliases:     []string{"v"},
				Usage:       "enable debug logging",
				Destination: &verbose,
			},
		},
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := loadConfig(configFile)
	applyConfig(cmd, cfg)

	logger := initLogger()

	if !validFormat(format) {
		return cli.Exit(fmt.Sprintf("error: unknown format %q", format), 1)
	}
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return cli.Exit("error: no input files", 1)
	}

	columns := cfg.SQLColumns
	if len(columns) == 0 {
		columns = defaultSQLColumns
	}

	dumped := 0
	for _, name := range files {
		meta, err := decodeOne(name, logger)
		if err != nil {
			if errors.Is(err, iim.ErrNoMetadata) {
				logger.Warn().Str("file", name).Msg("no IPTC application records found")
			} else {
				logger.Error().Str("file", name).Err(err).Msg("decode failed")
			}
			continue
		}
		logger.Debug().Str("file", name).Int("attributes", meta.Len()).Msg("decoded")

		if err := render(os.Stdout, meta, columns); err != nil {
			return cli.Exit(fmt.Sprintf("error: %s: %v", name, err), 1)
		}
		dumped++
	}

	if dumped == 0 {
		return cli.Exit("error: no IPTC metadata in any input", 1)
	}
	return nil
}

// decodeOne decodes a single file with the configured scan window, routing
// library warnings to the debug log.
func decodeOne(filename string, logger zerolog.Logger) (*iim.Metadata, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return iim.Decode(iim.Options{
		R:          f,
		ScanWindow: scanWindow,
		Warnf: func(format string, args ...any) {
			logger.Debug().Str("file", filename).Msgf(format, args...)
		},
	})
}

func initLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case quiet:
		level = zerolog.ErrorLevel
	case verbose:
		level = zerolog.DebugLevel
	}
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	logger := zerolog.New(output).With().Timestamp().Str("app", "iimdump").Logger().Level(level)
	log.Logger = logger
	return logger
}
