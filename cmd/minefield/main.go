package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minefield/internal/config"
	"github.com/vancomm/minefield/internal/game"
	"github.com/vancomm/minefield/internal/minefield"
)

var log = logrus.New()

// setupLogging sends logs to a rotating file when one is configured, so the
// board on stdout stays readable. Without a file only warnings reach stderr
// outside of development.
func setupLogging() error {
	logLevel := logrus.InfoLevel
	if config.Development() {
		logLevel = logrus.DebugLevel
	}

	loggers := []*logrus.Logger{log, minefield.Log}
	for _, l := range loggers {
		l.SetLevel(logLevel)
		l.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	}

	path := config.LogFile()
	if path == "" {
		if !config.Development() {
			for _, l := range loggers {
				l.SetLevel(logrus.WarnLevel)
			}
		}
		return nil
	}

	hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Level:      logLevel,
		Formatter:  &logrus.JSONFormatter{},
	})
	if err != nil {
		return fmt.Errorf("unable to set up log file %s: %w", path, err)
	}
	for _, l := range loggers {
		l.AddHook(hook)
		l.SetOutput(io.Discard)
	}
	return nil
}

// readLines feeds stdin to the game loop. A blocked read cannot be
// interrupted, so this runs outside the errgroup and ends with the process.
func readLines(r io.Reader, lines chan<- string) {
	defer close(lines)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines <- scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		log.Error("unable to read input: ", err)
	}
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	if err := config.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}

	if err := setupLogging(); err != nil {
		log.Fatal(err)
	}

	board, err := config.NewBoard()
	if err != nil {
		log.Fatal("unable to read board config: ", err)
	}
	log.WithFields(board.Fields()).Debug("config")

	session, err := game.NewSession(board.Rows, board.Cols, log)
	if err != nil {
		log.Fatal("unable to start a game: ", err)
	}

	p := &player{
		session:     session,
		out:         os.Stdout,
		development: config.Development(),
	}

	lines := make(chan string)
	go readLines(os.Stdin, lines)

	g, gCtx := errgroup.WithContext(mainCtx)
	g.Go(func() error {
		return p.play(gCtx, lines)
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.WithFields(logrus.Fields{
			"session": session.ID.String(),
			"status":  session.Status().String(),
		}).Info("shutting down")
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) {
		log.Printf("exit reason: %s\n", err)
	}
	fmt.Fprintln(p.out, "bye")
}
