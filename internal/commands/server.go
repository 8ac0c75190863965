package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/docktiles/docktiles/internal/api"
	"github.com/docktiles/docktiles/internal/docker"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the dashboard server",
	Long:  `Start the HTTP dashboard server with Echo framework`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	// Connect to the container runtime
	runtime, err := docker.New(docker.Options{
		Host:      cfg.Docker.Host,
		TLSVerify: cfg.Docker.TLSVerify,
		CertPath:  cfg.Docker.CertPath,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to docker: %w", err)
	}
	defer runtime.Close()

	server := api.New(cfg, runtime)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errChan <- err
		}
	}()

	// Wait for shutdown signal or error
	select {
	case <-ctx.Done():
		fmt.Println("\n⚠️  Shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			cfg.Server.ShutdownTimeout,
		)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return nil

	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}
