package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ikkim/edubooks-storefront/config"
	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/internal/app/repository"
	"github.com/ikkim/edubooks-storefront/internal/db"
	"github.com/ikkim/edubooks-storefront/pkg/redis"
	"github.com/xuri/excelize/v2"
)

// seedEntry is one row of the seed workbook: scope | key | value
type seedEntry struct {
	Scope model.StorageScope
	Key   string
	Value string
}

var knownKeys = map[string]bool{
	model.KeyToken:          true,
	model.KeyUser:           true,
	model.KeyTheme:          true,
	model.KeyLanguage:       true,
	model.KeyHasShownLoader: true,
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path> [-y]")
	}

	filePath := os.Args[1]
	assumeYes := len(os.Args) > 2 && os.Args[2] == "-y"

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	entries, skipped, err := readEntriesFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Entries to import: %d (skipped rows: %d)\n", len(entries), skipped)

	if !assumeYes {
		fmt.Printf("Write them to the %s store? (yes/no): ", cfg.Storage.Driver)
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	repo, closeRepo := openRepository(cfg)
	defer closeRepo()

	ctx := context.Background()
	for _, entry := range entries {
		if err := repo.Set(ctx, entry.Scope, entry.Key, entry.Value); err != nil {
			log.Fatalf("Failed to write %s/%s: %v", entry.Scope, entry.Key, err)
		}
	}

	fmt.Println("Import completed successfully!")
}

func openRepository(cfg *config.Config) (repository.StorageRepository, func()) {
	if cfg.Storage.Driver == "redis" {
		if err := redis.Init(&cfg.Redis); err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		return repository.NewRedisStorageRepository(redis.GetClient()), func() { redis.Close() }
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	return repository.NewStorageRepository(db.GetDB()), func() { db.Close() }
}

// readEntriesFromXLSX reads the first sheet, header row first. Rows with an
// unknown scope or key are skipped; a repeated scope/key keeps the last value.
func readEntriesFromXLSX(filePath string) ([]seedEntry, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, 0, fmt.Errorf("no data found in XLSX file")
	}

	var entries []seedEntry
	index := make(map[string]int)
	skipped := 0

	for _, row := range rows[1:] {
		if len(row) < 3 {
			skipped++
			continue
		}

		scope := model.StorageScope(strings.ToLower(strings.TrimSpace(row[0])))
		key := strings.TrimSpace(row[1])
		value := strings.TrimSpace(row[2])

		if scope != model.ScopeLocal && scope != model.ScopeSession {
			skipped++
			continue
		}
		if !knownKeys[key] || value == "" {
			skipped++
			continue
		}

		id := string(scope) + "/" + key
		if i, ok := index[id]; ok {
			entries[i].Value = value
			continue
		}
		index[id] = len(entries)
		entries = append(entries, seedEntry{Scope: scope, Key: key, Value: value})
	}

	return entries, skipped, nil
}
