package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/direktor/internal/app"
	"github.com/ziadkadry99/direktor/internal/logger"
	"github.com/ziadkadry99/direktor/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web console",
	Long: `Starts the direktor web console. The list of domains is fetched once from
the configured backend at startup; open pages update when it arrives.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.ListenPort = servePort
		}

		log := logger.New("cmd/serve")
		defer log.Sync()
		logger.RedirectLogPackage(log)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := app.New(cfg,
			app.WithLogger(logger.New("internal/app")),
			app.WithUserAgent(userAgent()),
		)
		if err != nil {
			return fmt.Errorf("creating app: %w", err)
		}
		defer a.Close()

		if err := a.Start(ctx); err != nil {
			return fmt.Errorf("starting app: %w", err)
		}

		srv := server.New(server.Config{
			Port:     cfg.ListenPort,
			AllowAll: cfg.AllowAllOrigins,
		}, a.Store(), a.Theme(), a.Registry(), logger.New("internal/server"))

		// Graceful shutdown.
		go func() {
			<-ctx.Done()
			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("shutdown", zap.Error(err))
			}
		}()

		log.Info("direktor console starting",
			zap.String("version", Version),
			zap.Int("port", cfg.ListenPort),
			zap.String("backend", cfg.BackendURL),
			zap.Stringer("theme", a.Theme().Mode()),
		)

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides listen_port)")
	rootCmd.AddCommand(serveCmd)
}
