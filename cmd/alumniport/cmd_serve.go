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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"alumniport/internal/handlers"
	"alumniport/internal/middleware"
	"alumniport/internal/router"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the admin extraction API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default ALUMNI_ADDR or :8080)")
	serveCmd.Flags().StringVar(&engineName, "engine", "tesseract", "OCR engine: tesseract or vision")
	serveCmd.Flags().StringVar(&parserName, "parser", "regex", "Text parser: regex or gemini")
	serveCmd.Flags().BoolVar(&noBengali, "no-bengali", false, "Skip the Bengali OCR pass")
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.AdminSecret == "" {
		return middleware.ErrNoSecret
	}
	x, err := newExtractor()
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.Addr
	}
	h := handlers.New(cfg.PipelineOptions(), x, logger)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router.RegisterRouter(h, []byte(cfg.AdminSecret), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
