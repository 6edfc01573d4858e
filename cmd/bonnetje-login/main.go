// Command bonnetje-login runs the browser login flow from a terminal and
// stores the resulting token pair in the configured slot. Useful on machines
// where the dashboard runs headless and the interactive login has to happen
// elsewhere, or to pre-seed a session before first start.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"bonnetje/internal/ah"
	"bonnetje/internal/config"
	applog "bonnetje/internal/log"
	"bonnetje/internal/login"
	"bonnetje/internal/tokens"
)

func main() {
	godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentLogin)
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	username := flag.String("username", os.Getenv("AH_USERNAME"), "Albert Heijn account username")
	headless := flag.Bool("headless", cfg.LoginHeadless, "run the browser headless (captchas cannot be solved)")
	flag.Parse()

	password := os.Getenv("AH_PASSWORD")
	if password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			logger.Error("Failed to read password", "error", err)
			os.Exit(1)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	store, cleanup, err := tokens.Open(tokens.Backend(cfg.TokenBackend), cfg.TokenDBPath, logger.Logger)
	if err != nil {
		logger.Error("Failed to open token store", "error", err, "backend", cfg.TokenBackend)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	client := ah.NewClient(store)
	flow := login.NewFlow(client, *headless)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pair, err := flow.Login(ctx, *username, password)
	if err != nil {
		logger.Error("Login failed", "error", err)
		os.Exit(1)
	}

	if err := store.Save(ctx, pair); err != nil {
		logger.Error("Failed to store session", "error", err)
		os.Exit(1)
	}

	logger.Info("Login complete, session stored", "backend", cfg.TokenBackend)
}
