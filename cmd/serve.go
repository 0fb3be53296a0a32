package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"collegematch/internal/logger"
	"collegematch/internal/server"
)

const (
	defaultListen            = ":8080"
	defaultRequestsPerSecond = 5.0
	defaultBurst             = 10
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the suggest/match/compare HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address (overrides server.listen)")

	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zl, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	zl.Info("starting the collegematch api", zap.String("version", version))

	svc, err := buildServices(ctx, config, zl)
	if err != nil {
		zl.Fatal(
			"building services",
			zap.Error(err),
			zap.String("hint", "set SCORECARD_API_KEY or scorecard.api-key-file in the configuration file"),
		)
	}

	listen := defaultListen
	rps := defaultRequestsPerSecond
	burst := defaultBurst
	if config.Server != nil {
		if config.Server.Listen != "" {
			listen = config.Server.Listen
		}
		if config.Server.RequestsPerSecond > 0 {
			rps = config.Server.RequestsPerSecond
		}
		if config.Server.Burst > 0 {
			burst = config.Server.Burst
		}
	}
	if flagListen := viper.GetString("server.listen"); flagListen != "" {
		listen = flagListen
	}

	limiter := server.NewRateLimiter(rps, burst)

	srv := server.New(svc.matcher, svc.suggester, limiter, zl)
	if err := srv.Run(ctx, listen); err != nil {
		zl.Fatal("http server failed", zap.Error(err))
	}
}
