package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/network/netpoll"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/onatvural/onboarding-demo/internal/config"
	"github.com/onatvural/onboarding-demo/internal/handler"
	"github.com/onatvural/onboarding-demo/internal/infrastructure/catalog"
	"github.com/onatvural/onboarding-demo/internal/infrastructure/llm"
	"github.com/onatvural/onboarding-demo/internal/router"
	"github.com/onatvural/onboarding-demo/internal/usecase"
	"github.com/onatvural/onboarding-demo/pkg/logger"
)

var (
	cfgFile string
	version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "onboarding-server",
	Short: "Streaming API server for the fund onboarding assistant",
	Long: `onboarding-server is the HTTP backend of the Beta Space Finans onboarding
demo. It streams the assistant's reply as newline-delimited JSON snapshots,
each one a more complete view of the same turn.`,
	Version: version,
	Run:     runServer,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "configs/config.yaml", "path to config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func runServer(cmd *cobra.Command, args []string) {
	// Optional .env for local development; real deployments use ONBOARD_* env.
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.Setup(cfg.Log); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	slog.Info("onboarding server starting",
		"version", version,
		"config", cfgFile,
	)

	hlog.SetLogger(logger.NewHertzSlogAdapter(slog.Default()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	generator, err := llm.NewGenerator(ctx, cfg.Model, slog.Default())
	cancel()
	if err != nil {
		slog.Error("failed to create generator", "error", err)
		os.Exit(1)
	}

	fundCatalog := catalog.New()
	conversationUsecase := usecase.NewConversationUsecase(generator, fundCatalog, cfg.Chat, slog.Default())
	conversationHandler := handler.NewConversationHandler(conversationUsecase)
	healthHandler := handler.NewHealthHandler(func(ctx context.Context) error {
		if cfg.Model.APIKey == "" {
			return errors.New("model api key not configured")
		}
		return nil
	})

	h := server.Default(
		server.WithHostPorts(cfg.GetServerAddr()),
		server.WithReadTimeout(cfg.GetReadTimeout()),
		server.WithWriteTimeout(cfg.GetWriteTimeout()),
		server.WithMaxRequestBodySize(cfg.Server.MaxRequestBodySize*1024*1024),
		server.WithTransport(netpoll.NewTransporter),
	)

	router.Setup(h, conversationHandler, healthHandler)

	slog.Info("server started",
		"address", cfg.GetServerAddr(),
		"mode", cfg.Server.Mode,
		"model", cfg.Model.Name,
	)

	go func() {
		if err := h.Run(); err != nil {
			slog.Error("server run failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
