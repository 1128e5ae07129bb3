package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"interviewsim/internal/config"
	"interviewsim/internal/database"
	"interviewsim/internal/repository"
	"interviewsim/internal/service"
)

func main() {
	// Define subcommands
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	pruneCmd := flag.NewFlagSet("prune", flag.ExitOnError)

	exportOutput := exportCmd.String("output", "", "Output file path (default: runs_YYYYMMDD_HHMMSS.json)")
	importInput := importCmd.String("input", "", "Input file path (required)")
	pruneOlderThan := pruneCmd.Duration("older-than", 0, "Delete runs completed longer ago than this, e.g. 720h (required)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()
	if database.IsMemoryPath(cfg.DatabasePath) && cfg.DatabaseType == "sqlite" {
		log.Fatalf("DB_PATH is an in-memory database; set DB_PATH or DATABASE_URL to the server's database")
	}

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	backupService := service.NewBackupService(repository.NewRunRepository(db))

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		handleExport(backupService, *exportOutput)

	case "import":
		importCmd.Parse(os.Args[2:])
		if *importInput == "" {
			fmt.Println("Error: -input flag is required")
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		handleImport(backupService, *importInput)

	case "prune":
		pruneCmd.Parse(os.Args[2:])
		if *pruneOlderThan <= 0 {
			fmt.Println("Error: -older-than must be a positive duration")
			pruneCmd.PrintDefaults()
			os.Exit(1)
		}
		deleted, err := backupService.Prune(*pruneOlderThan)
		if err != nil {
			log.Fatalf("Prune failed: %v", err)
		}
		log.Printf("Deleted %d runs", deleted)

	default:
		printUsage()
		os.Exit(1)
	}
}

func handleExport(backupService *service.BackupService, outputPath string) {
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("runs_%s.json", timestamp)
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create output directory: %v", err)
		}
	}

	if _, err := backupService.Export(outputPath); err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	fileInfo, err := os.Stat(outputPath)
	if err == nil {
		log.Printf("Export complete! File size: %.2f KB", float64(fileInfo.Size())/1024)
	}
}

func handleImport(backupService *service.BackupService, inputPath string) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		log.Fatalf("Input file does not exist: %s", inputPath)
	}

	if _, err := backupService.Import(inputPath); err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	log.Println("Import complete!")
}

func printUsage() {
	fmt.Println("Interview Simulator Run History Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  backup export [options]    Export recorded runs to a JSON file")
	fmt.Println("  backup import [options]    Merge runs from a JSON file")
	fmt.Println("  backup prune [options]     Delete old runs")
	fmt.Println()
	fmt.Println("Export Options:")
	fmt.Println("  -output <file>        Output file path (default: runs_YYYYMMDD_HHMMSS.json)")
	fmt.Println()
	fmt.Println("Import Options:")
	fmt.Println("  -input <file>         Input file path (required); runs already present are skipped")
	fmt.Println()
	fmt.Println("Prune Options:")
	fmt.Println("  -older-than <dur>     Age cutoff such as 720h (required)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  backup export -output runs.json")
	fmt.Println("  backup import -input runs.json")
	fmt.Println("  backup prune -older-than 2160h")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  DATABASE_TYPE    Database type: sqlite, postgres, or mysql (default: sqlite)")
	fmt.Println("  DB_PATH          SQLite database path")
	fmt.Println("  DATABASE_URL     PostgreSQL or MySQL connection URL")
}
