// Package main implements the jwcsheet-export binary: a one-shot exporter
// that renders the current registration records to a local .xlsx file or
// pushes them to the live sheet without running the service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/OhMinsSup/jwc-platform-sub000/internal/app"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/config"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/excel"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/sheets"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/store"
)

func main() {
	var (
		configFile   string
		dataDir      string
		outPath      string
		exportFormat string
		limit        int
	)

	flag.StringVar(&configFile, "config", "", "Path to configuration file (YAML or JSON)")
	flag.StringVar(&dataDir, "data-dir", "", "Base directory for local data files")
	flag.StringVar(&outPath, "out", "registrations.xlsx", "Output file path (format=excel)")
	flag.StringVar(&exportFormat, "format", "excel", "Export format: excel, google")
	flag.IntVar(&limit, "limit", 0, "Maximum records to export (0 = all)")
	flag.Parse()

	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.LoadFromFile(configFile)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		cfg = loaded
	}
	config.LoadFromEnv(cfg)
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()

	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		log.Fatalf("failed to open record store: %v", err)
	}
	defer st.Close()

	records, err := st.FindAll(ctx, limit)
	if err != nil {
		log.Fatalf("failed to load records: %v", err)
	}

	registrationSchema := app.RegistrationSchema()

	switch exportFormat {
	case "excel":
		f, err := os.Create(outPath)
		if err != nil {
			log.Fatalf("failed to create output file: %v", err)
		}
		defer f.Close()

		if err := excel.Write(f, registrationSchema, records); err != nil {
			log.Fatalf("failed to write workbook: %v", err)
		}
		fmt.Printf("exported %d records to %s\n", len(records), outPath)

	case "google":
		api, err := sheets.NewGoogleAPI(ctx, cfg.Sheets.CredentialsFile)
		if err != nil {
			log.Fatalf("failed to create google sheets client: %v", err)
		}
		manager := sheets.NewSyncManager(api)
		result, err := manager.SyncFullReplace(ctx, registrationSchema, records, sheets.Target{
			SpreadsheetID: cfg.Sheets.SpreadsheetID,
			SheetName:     cfg.Sheets.SheetName,
		})
		if err != nil {
			log.Fatalf("sync failed: %v", err)
		}
		fmt.Printf("synced %d records to %s\n", result.RecordCount, result.URL)

	default:
		log.Fatalf("unsupported format %q (must be excel or google)", exportFormat)
	}
}
