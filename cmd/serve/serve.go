// Package serve implements the command that runs the HTTP server.
package serve

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/birdscan/birdscan-go/internal/api"
	"github.com/birdscan/birdscan-go/internal/classifier"
	"github.com/birdscan/birdscan-go/internal/conf"
	"github.com/birdscan/birdscan-go/internal/detection"
	"github.com/birdscan/birdscan-go/internal/enrichment"
	"github.com/birdscan/birdscan-go/internal/filter"
	"github.com/birdscan/birdscan-go/internal/logging"
	"github.com/birdscan/birdscan-go/internal/pipeline"
	"github.com/birdscan/birdscan-go/internal/vocab"
)

const shutdownTimeout = 10 * time.Second

// Command creates the serve command.
func Command(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the identification web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(settings)
		},
	}
}

// runServer wires the pipeline together and serves until interrupted.
func runServer(settings *conf.Settings) error {
	labels := vocab.COCO()

	detector, err := detection.NewHTTPDetector(detection.Config{
		Endpoint:      settings.Detector.Endpoint,
		Timeout:       time.Duration(settings.Detector.Timeout) * time.Second,
		MinConfidence: settings.Detector.MinConfidence,
	}, labels)
	if err != nil {
		return fmt.Errorf("failed to initialize detector client: %w", err)
	}

	speciesClassifier, err := classifier.NewHTTPClassifier(classifier.Config{
		Endpoint: settings.Classifier.Endpoint,
		Timeout:  time.Duration(settings.Classifier.Timeout) * time.Second,
		TopK:     settings.Classifier.TopK,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize classifier client: %w", err)
	}

	enrichClient := enrichment.NewClient(enrichment.Config{
		APIKey:         settings.EBird.APIKey,
		BaseURL:        settings.EBird.BaseURL,
		CacheTTL:       time.Duration(settings.EBird.CacheTTL) * time.Hour,
		Region:         settings.EBird.Region,
		ConnectTimeout: time.Duration(settings.EBird.ConnectTimeout) * time.Second,
		ReadTimeout:    time.Duration(settings.EBird.ReadTimeout) * time.Second,
	})
	defer enrichClient.Close()

	enrichService := enrichment.NewService(enrichClient)

	subjectFilter := filter.NewSubjectFilter(labels, filter.Thresholds{
		Person:         settings.Filter.PersonConfidence,
		Animal:         settings.Filter.AnimalConfidence,
		Indoor:         settings.Filter.IndoorConfidence,
		IndoorMinCount: settings.Filter.IndoorMinCount,
	})
	resolver := filter.NewResolver(labels, settings.Detector.MinConfidence, settings.Filter.FallbackConfidence)

	orchestrator := pipeline.NewOrchestrator(detector, speciesClassifier, enrichService,
		subjectFilter, resolver, pipeline.Config{
			MaxCrops:      settings.Classifier.MaxCrops,
			PadRatio:      settings.Classifier.PadRatio,
			LowConfidence: settings.Classifier.LowConfidence,
		})
	defer orchestrator.Close()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	controller, err := api.New(e, settings, orchestrator, enrichService, log.Default())
	if err != nil {
		return fmt.Errorf("failed to initialize API controller: %w", err)
	}
	defer controller.Shutdown()

	address := net.JoinHostPort(settings.WebServer.Host, settings.WebServer.Port)

	errChan := make(chan error, 1)
	go func() {
		logging.Info("Starting web server",
			"address", address,
			"version", settings.Version)
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("web server failed: %w", err)
	case sig := <-quit:
		logging.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logging.Info("Server stopped")
	return nil
}
