// cmd/fake-serverest/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"serverest-suite/internal/common/logger"
	"serverest-suite/internal/serverest/fake"
)

func main() {
	var (
		addr     string
		tokenTTL time.Duration
		noSeed   bool
		logLevel string
	)
	cmd := &cobra.Command{
		Use:          "fake-serverest",
		Short:        "In-memory ServeRest for local runs (the dev environment)",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gin.SetMode(gin.ReleaseMode)
			log := logger.NewStructured(logLevel, "console", "stdout")
			defer log.Sync()

			opts := []fake.Option{fake.WithTokenTTL(tokenTTL)}
			if noSeed {
				opts = append(opts, fake.WithoutSeed())
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           fake.New(log, opts...).Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("Fake ServeRest listening", map[string]interface{}{"addr": addr, "seeded": !noSeed})
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-sigCh:
			}
			log.Info("Shutdown signal received, stopping server...", nil)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":3000", "listen address")
	cmd.Flags().DurationVar(&tokenTTL, "token-ttl", fake.DefaultTokenTTL, "lifetime of issued bearer tokens")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "start without the default user and products")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
