// Command covcalc runs a single coverage calculation from a request file and
// writes the result to stdout.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.DefaultContextLogger = &log.Logger

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
