package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/platefeed/platefeed-backend/internal/app"
)

type ingredientRow struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func main() {
	var file string
	var format string
	flag.StringVar(&file, "file", "", "path to the ingredient data file")
	flag.StringVar(&format, "format", "", "file format: json or csv (default: by extension)")
	flag.Parse()

	if file == "" {
		fmt.Println("usage: ingredientimport -file <path> [-format json|csv]")
		os.Exit(1)
	}
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(file)), ".")
	}

	_ = godotenv.Load()

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	rows, err := readRows(file, format)
	if err != nil {
		fmt.Printf("read %s: %v\n", file, err)
		os.Exit(1)
	}

	ctx := context.Background()
	created, existing, skipped := 0, 0, 0
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		unit := strings.TrimSpace(row.MeasurementUnit)
		if name == "" || unit == "" {
			application.Log.Warn("Skipping malformed ingredient row", "name", row.Name, "measurement_unit", row.MeasurementUnit)
			skipped++
			continue
		}
		_, wasCreated, err := application.Repos.Ingredient.GetOrCreate(ctx, nil, name, unit)
		if err != nil {
			application.Log.Warn("Failed to import ingredient", "name", name, "error", err)
			skipped++
			continue
		}
		if wasCreated {
			created++
		} else {
			existing++
		}
	}
	fmt.Printf("imported %d ingredients (%d already present, %d skipped)\n", created, existing, skipped)
}

func readRows(file, format string) ([]ingredientRow, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch format {
	case "json":
		var rows []ingredientRow
		if err := json.NewDecoder(f).Decode(&rows); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
		return rows, nil
	case "csv":
		return readCSV(f)
	default:
		return nil, fmt.Errorf("unsupported format %q (want json or csv)", format)
	}
}

// readCSV accepts rows of name,measurement_unit. A leading header row is
// skipped when its first cell is "name".
func readCSV(r io.Reader) ([]ingredientRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode csv: %w", err)
	}
	rows := make([]ingredientRow, 0, len(records))
	for i, record := range records {
		if len(record) < 2 {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(record[0]), "name") {
			continue
		}
		rows = append(rows, ingredientRow{Name: record[0], MeasurementUnit: record[1]})
	}
	return rows, nil
}
