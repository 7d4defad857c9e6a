// Package main is the interactive terminal front end: a local session
// engine driven by keyboard and mouse, no network or persistence.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/torolife/server/internal/engine"
	"github.com/torolife/server/internal/events"
	"github.com/torolife/server/internal/platform/logger"
	"github.com/torolife/server/internal/term"
)

func main() {
	rows := flag.Int("rows", 32, "Board rows")
	columns := flag.Int("columns", 64, "Board columns")
	shapeName := flag.String("shape", "rpentomino", "Seed shape name (empty for a blank board)")
	offset := flag.Int("offset", 10, "Seed shape offset, percent of board size")
	tick := flag.Duration("tick", engine.DefaultTickInterval, "Generation interval while running")
	flag.Parse()

	// The terminal belongs to the board; logs would corrupt the screen.
	appLogger := logger.NewDiscardLogger()

	journal := events.NewJournal(nil)
	eng := engine.NewEngine(journal, appLogger, *tick)
	if err := eng.Seed(*columns, *rows, *shapeName, *offset); err != nil {
		fmt.Fprintln(os.Stderr, "failed to seed board:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng.Start(ctx)

	app, err := term.NewApp(eng, appLogger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize terminal:", err)
		os.Exit(1)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return app.Run(ctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "terminal session failed:", err)
		os.Exit(1)
	}
}
