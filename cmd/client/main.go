/*
Package main is the entry point for the From Metro terminal client.

It restores the rider's saved selections, then reads commands from standard input and
drives the registration, waiting room and station group flows against the REST API.
Logs go to standard error so they never mix with the rendered screens.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-colorable"

	"izmetro/internal/app/station"
	"izmetro/internal/client/api"
	"izmetro/internal/client/controller"
	"izmetro/internal/client/session"
	"izmetro/internal/client/terminal"
	"izmetro/internal/configs"
	"izmetro/internal/pkg/logx"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := configs.LoadClientConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logx.InitGlobalLogger(cfg.Environment == "development", os.Stderr)
	if envErr != nil {
		logx.Debug("No .env file loaded", "reason", envErr.Error())
	}
	logx.Logger().Info().
		Str("api_base_url", cfg.APIBaseURL).
		Dur("poll_interval", cfg.PollInterval).
		Dur("request_timeout", cfg.RequestTimeout).
		Str("state_file", cfg.StateFile).
		Msg("Client configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store session.KV
	if fileKV, err := session.OpenFileKV(cfg.StateFile); err != nil {
		logx.Warn("Saved selections unreadable, keeping them in memory only", "error", err.Error())
		store = session.NewMemoryKV()
	} else {
		store = fileKV
	}

	catalog, err := station.LoadCatalog()
	if err != nil {
		logx.Fatal(err, "Failed to load station catalog")
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, api.WithReadRetries(cfg.ReadRetries))
	display := terminal.NewDisplay(colorable.NewColorableStdout(), logx.IsTerminal(os.Stdout))

	ctrl := controller.New(client, display, session.New(store), catalog, controller.Options{
		PollInterval: cfg.PollInterval,
		MountDelay:   cfg.MountDelay,
	})
	ctrl.Restore()
	display.Print("Type 'help' for the list of commands.")

	shell := terminal.NewShell(ctrl, display)
	if err := shell.Run(ctx, os.Stdin); err != nil {
		logx.Error(err, "Reading commands failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	ctrl.Shutdown(shutdownCtx)

	logx.Info("Client stopped.")
}
