// Package main provides the skyorder uploader: it takes one structured
// subscription order and enters it into the Siebel order system, leaving the
// session open for manual review once all price checks have passed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/entrhq/skyorder/pkg/browser"
	"github.com/entrhq/skyorder/pkg/logging"
	"github.com/entrhq/skyorder/pkg/order"
	"github.com/entrhq/skyorder/pkg/siebel"
	"github.com/entrhq/skyorder/pkg/workflow"
)

const version = "0.1.0"

// CLIConfig holds command-line configuration.
type CLIConfig struct {
	OrderFile   string
	OutputFile  string
	Headless    bool
	Install     bool
	ShowVersion bool
}

func main() {
	config := parseFlags()

	if config.ShowVersion {
		fmt.Printf("skyorder v%s\n", version)
		return
	}

	if config.Install {
		if err := browser.Install(); err != nil {
			log.Printf("Install failed: %v", err)
			os.Exit(1)
		}
		fmt.Println("Playwright browsers installed")
		return
	}

	// Create context with signal handling for graceful shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	if err := run(ctx, config); err != nil {
		cancel()
		log.Printf("Order upload failed: %v", err)
		os.Exit(1)
	}
	cancel()
}

// parseFlags parses command line flags.
func parseFlags() *CLIConfig {
	config := &CLIConfig{}

	flag.StringVar(&config.OrderFile, "order", "", "Path to the order file (YAML or JSON, required)")
	flag.StringVar(&config.OutputFile, "output", "", "Path for the captured confirmation document (optional)")
	flag.BoolVar(&config.Headless, "headless", false, "Run the browser headless")
	flag.BoolVar(&config.Install, "install", false, "Install Playwright browsers and exit")
	flag.BoolVar(&config.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "skyorder - Siebel order-entry uploader\n\n")
		fmt.Fprintf(os.Stderr, "Usage: skyorder [options]\n\n")
		fmt.Fprintf(os.Stderr, "Connection settings come from the environment (or a .env file):\n")
		fmt.Fprintf(os.Stderr, "  SIEBEL_URL, SIEBEL_USERNAME, SIEBEL_PASSWORD\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # One-time setup\n")
		fmt.Fprintf(os.Stderr, "  skyorder -install\n\n")
		fmt.Fprintf(os.Stderr, "  # Upload an order and capture the confirmation document\n")
		fmt.Fprintf(os.Stderr, "  skyorder -order order.yaml -output confirmation.html\n\n")
	}

	flag.Parse()
	return config
}

// run uploads one order end to end and then keeps the session open for
// manual review until the context is cancelled.
func run(ctx context.Context, cliConfig *CLIConfig) error {
	if cliConfig.OrderFile == "" {
		flag.Usage()
		return fmt.Errorf("-order is required")
	}

	// A missing .env file is fine; the variables may come from the
	// environment directly.
	_ = godotenv.Load()

	sessionConfig := browser.Config{
		URL:      os.Getenv("SIEBEL_URL"),
		Username: os.Getenv("SIEBEL_USERNAME"),
		Password: os.Getenv("SIEBEL_PASSWORD"),
		Headless: cliConfig.Headless,
	}
	if err := sessionConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	o, err := order.LoadFile(cliConfig.OrderFile)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger("skyorder")
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()
	fmt.Printf("Logging to %s\n", logger.LogPath())

	manager, err := browser.NewManager(logger)
	if err != nil {
		return err
	}
	defer manager.Close()

	session, err := manager.OpenSession(sessionConfig)
	if err != nil {
		return err
	}
	defer session.Close()

	if cliConfig.OutputFile != "" {
		session.EnableDocumentCapture(cliConfig.OutputFile)
	}

	driver := siebel.NewDriver(siebel.NewPage(session.Page), logger)
	uploader := workflow.NewUploader(driver, logger)

	if err := uploader.Run(o); err != nil {
		return err
	}

	// The order sits in the form unsubmitted: keep the session open for
	// manual review and submission until interrupted.
	fmt.Println("Order entered, price checks passed. Review and submit manually; Ctrl-C to exit.")
	<-ctx.Done()
	return nil
}
