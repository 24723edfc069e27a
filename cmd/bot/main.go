package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"
	assistantimpl "github.com/uzulab/soudanin/external/assistant"
	calendarimpl "github.com/uzulab/soudanin/external/calendar"
	configloader "github.com/uzulab/soudanin/external/config"
	messengerimpl "github.com/uzulab/soudanin/external/messenger"
	repositoryimpl "github.com/uzulab/soudanin/external/repository"
	webhookimpl "github.com/uzulab/soudanin/external/webhook"
	"github.com/uzulab/soudanin/internal/config"
	"github.com/uzulab/soudanin/internal/conversation"
	messengerpkg "github.com/uzulab/soudanin/internal/messenger"
)

const (
	messengerConnectTimeout = 20 * time.Second
	openingMessageTimeout   = 90 * time.Second
)

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "topic", cfg.ConsultationTopic)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching consultation bot")
	runBot(cfg, injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	assistantimpl.RegisterDI(injector)
	calendarimpl.RegisterDI(injector)
	messengerimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	conversation.RegisterDI(injector)

	return injector
}

func runBot(cfg *config.Config, injector do.Injector) {
	mc, err := do.Invoke[messengerpkg.Client](injector)
	if err != nil {
		slog.Error("failed to resolve messenger client", "error", err)
		os.Exit(1)
	}
	engine, err := do.Invoke[*conversation.Engine](injector)
	if err != nil {
		slog.Error("failed to resolve conversation engine", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), messengerConnectTimeout)
	defer cancel()

	slog.Info("startup: connecting to discord gateway")
	if err := mc.Connect(ctx); err != nil {
		slog.Error("discord connect failed", "error", err)
		os.Exit(1)
	}
	slog.Info("startup: discord connected")
	defer func() {
		if err := mc.Close(); err != nil {
			slog.Error("discord close failed", "error", err)
		}
	}()

	mc.RegisterMessageHandler(engine.HandleInboundMessage)
	slog.Info("message handler registered", "client_user_id", cfg.DiscordClientUserID)

	openingCtx, cancelOpening := context.WithTimeout(context.Background(), openingMessageTimeout)
	defer cancelOpening()
	if err := engine.SendOpeningMessage(openingCtx); err != nil {
		slog.Error("failed to send opening message", "error", err)
		os.Exit(1)
	}

	done := make(chan struct{})
	go func() {
		slog.Info("startup: entering run loop")
		if err := mc.Run(); err != nil {
			slog.Error("messenger run failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
	case <-done:
	}
}
