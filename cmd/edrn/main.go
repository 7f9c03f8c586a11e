package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/edrn/pkg/log"
)

func main() {
	debug := false
	for _, arg := range os.Args[1:] {
		if arg == "--debug" || arg == "-d" {
			debug = true
		}
	}

	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	userLogger := log.New(os.Stdout, level)

	ctx := zlog.WithContext(context.Background())
	ctx = log.NewContext(ctx, userLogger)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		userLogger.Errorf("%v", err)
		os.Exit(1)
	}
}
