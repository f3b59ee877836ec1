package main

import (
	"context"
	_ "embed"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"time"

	"ndcduns/dailymed"
	"ndcduns/spl"

	"github.com/joho/godotenv"
)

//go:embed sql/schema.sql
var schema string

func main() {
	// .env is optional; DATABASE_URL may also come from the environment.
	_ = godotenv.Load()

	url := flag.String("url", dailymed.ReleaseURL, "DailyMed release zip to download")
	zipPath := flag.String("zip", "", "Local release zip (skips the download)")
	xmlDir := flag.String("xml-dir", "", "Directory of SPL XML files (skips download and unpacking)")
	workDir := flag.String("work", "", "Work directory (default: temporary, removed afterwards)")
	keep := flag.Bool("keep", false, "Keep the work directory contents")
	mode := flag.String("mode", "", "Extraction mode: filtered or emit-all (required)")
	manufactureOnly := flag.Bool("manufacture-only", false, "emit-all: keep only activities labelled exactly MANUFACTURE")
	workers := flag.Int("workers", runtime.NumCPU(), "Documents extracted concurrently")
	pgConn := flag.String("pg", os.Getenv("DATABASE_URL"), "PostgreSQL connection string (default: $DATABASE_URL)")
	outputFile := flag.String("out", "", "Output Parquet file")
	batchSize := flag.Int("batch", defaultBatchSize, "Rows per COPY batch")
	initSchema := flag.Bool("init", false, "Initialize database schema")
	estabFile := flag.String("establishments", "", "JSON establishment registry to match against DUNS (requires -pg)")
	dryRun := flag.Bool("dry-run", false, "Extract only, write nothing")
	attempts := flag.Int("attempts", 3, "Download attempts for transient failures")
	flag.Parse()

	if *mode == "" && !*initSchema {
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  ndc_loader -mode filtered|emit-all [-pg URL] [-out mappings.parquet] [options]\n")
		fmt.Fprintf(os.Stderr, "  ndc_loader -init -pg URL\n\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var sinks []MappingSink
	if *pgConn != "" && !*dryRun {
		pool, err := connect(ctx, *pgConn)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()
		log.Println("Connected to PostgreSQL")

		if *initSchema {
			if err := initializeSchema(ctx, pool); err != nil {
				log.Fatalf("Failed to initialize schema: %v", err)
			}
			log.Println("Schema initialized successfully")
			if *mode == "" {
				return
			}
		}
		sinks = append(sinks, newPgSink(pool, *batchSize))
	} else if *initSchema {
		log.Fatal("-init requires -pg or DATABASE_URL")
	}
	if *outputFile != "" && !*dryRun {
		sinks = append(sinks, newParquetSink(*outputFile, 0))
	}
	if len(sinks) == 0 && !*dryRun {
		log.Fatal("no destination: set -pg, -out or -dry-run")
	}

	m, err := spl.ParseMode(*mode)
	if err != nil {
		log.Fatal(err)
	}

	opts := Options{
		URL:                *url,
		ZipPath:            *zipPath,
		XMLDir:             *xmlDir,
		WorkDir:            *workDir,
		Keep:               *keep,
		Extract:            spl.Config{Mode: m, ManufactureOnly: *manufactureOnly},
		Workers:            *workers,
		EstablishmentsFile: *estabFile,
		Download: dailymed.DownloadOptions{
			Attempts: *attempts,
			Backoff:  5 * time.Second,
		},
	}
	if _, err := runPipeline(ctx, opts, sinks); err != nil {
		log.Fatal(err)
	}
}
