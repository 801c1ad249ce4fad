// Package main implements the jwcsheetd binary: the registration-entry
// spreadsheet sync service. It serves the inbound edit webhook and the
// export trigger over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/OhMinsSup/jwc-platform-sub000/internal/app"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/config"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var (
		configFile    string
		dataDir       string
		httpAddr      string
		provider      string
		spreadsheetID string
		showVersion   bool
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.StringVar(&dataDir, "data-dir", "", "Base directory for local data files")
	flag.StringVar(&httpAddr, "http-addr", "", "HTTP listen address")
	flag.StringVar(&provider, "provider", "", "Spreadsheet provider: google, fake")
	flag.StringVar(&spreadsheetID, "spreadsheet-id", "", "Target spreadsheet document id")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "jwcsheetd - registration spreadsheet sync service\n\n")
		fmt.Fprintf(os.Stderr, "Usage: jwcsheetd [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  jwcsheetd --data-dir /data/jwcsheet\n")
		fmt.Fprintf(os.Stderr, "  jwcsheetd --config /etc/jwcsheet/config.yaml\n")
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  JWC_DATA_DIR                 Base directory for data files\n")
		fmt.Fprintf(os.Stderr, "  JWC_HTTP_ADDR                HTTP listen address\n")
		fmt.Fprintf(os.Stderr, "  JWC_SHEETS_PROVIDER          Spreadsheet provider (google, fake)\n")
		fmt.Fprintf(os.Stderr, "  JWC_SHEETS_SPREADSHEET_ID    Target spreadsheet document id\n")
		fmt.Fprintf(os.Stderr, "  JWC_SHEETS_CREDENTIALS_FILE  Service account key file\n")
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("jwcsheetd %s (%s)\n", version, commit)
		return
	}

	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.LoadFromFile(configFile)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}
	config.LoadFromEnv(cfg)

	// Flags override file and environment.
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if httpAddr != "" {
		cfg.HTTP.Addr = httpAddr
	}
	if provider != "" {
		cfg.Sheets.Provider = config.Provider(provider)
	}
	if spreadsheetID != "" {
		cfg.Sheets.SpreadsheetID = spreadsheetID
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}

	ctx := context.Background()
	if err := application.Start(ctx); err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	if err := application.Wait(ctx); err != nil {
		log.Printf("shutdown finished with error: %v", err)
		os.Exit(1)
	}
	log.Printf("shutdown complete")
}
