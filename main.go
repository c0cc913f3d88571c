package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	lib "spanwall/lib"
)

func main() {
	app := cli.NewApp()
	app.Name = "spanwall"
	app.Usage = "Compose per-monitor wallpapers into a single spanned image"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   lib.DefaultConfigPath,
			Usage:   "Load configuration from `FILE`",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctxt *cli.Context) error {
	conf, err := lib.Init(ctxt.String("config"))
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(conf)
	if err != nil {
		return err
	}
	defer closeLog()

	session, err := lib.NewSession()
	if err != nil {
		return fmt.Errorf("opening display session: %w", err)
	}
	defer session.Close()

	if current, err := session.CurrentWallpaper(); err != nil {
		log.Debugf("Reading current wallpaper: %v", err)
	} else if current != "" {
		log.Infof("Current wallpaper [%s]", current)
	}

	comp := lib.NewCompositor(conf, session, session)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, err := session.WatchDisplayChanges(ctx)
	if err != nil {
		return fmt.Errorf("watching for display changes: %w", err)
	}

	if err := comp.Update(); err != nil {
		log.Errorf("Updating wallpaper: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			log.Info("Shutting down")
			return nil
		case _, ok := <-events:
			if !ok {
				return nil
			}
			log.Infof("Display configuration changed")
			if err := comp.Update(); err != nil {
				log.Errorf("Updating wallpaper: %v", err)
			}
		}
	}
}

// setupLogging applies the configured level and redirects output to the log
// file, which stays open for the life of the process.
func setupLogging(conf *lib.Config) (func(), error) {
	log.SetReportTimestamp(true)

	lvl, err := log.ParseLevel(conf.Settings.LogLevel)
	if err != nil {
		log.Warnf("Invalid log_level [%s], using info", conf.Settings.LogLevel)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)

	if conf.Settings.LogFile == "" {
		return func() {}, nil
	}

	f, err := os.OpenFile(conf.Settings.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("opening log file [%s]: %w", conf.Settings.LogFile, err)
	}
	log.SetOutput(f)
	return func() { f.Close() }, nil
}
