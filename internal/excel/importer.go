package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/frasebot/internal/database"
	"github.com/example/frasebot/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath     string // Path to the Excel or CSV file
	SourceColumn string // Column with the English sentence
	TargetColumn string // Column with the Portuguese sentence
	SheetName    string // Name of the sheet to import
	StartRow     int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SourceColumn: "A",
		TargetColumn: "B",
		SheetName:    "Sheet1",
		StartRow:     2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// ImportPhrases imports sentence pairs from an Excel or CSV file into
// the catalog
func ImportPhrases(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	if ext == ".csv" {
		return importFromCSV(ctx, config)
	}

	return importFromExcel(ctx, config)
}

// importFromExcel imports phrases from an Excel file
func importFromExcel(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %v", err)
	}

	phraseRepo := database.NewPhraseRepository()
	result := &ImportResult{Errors: make([]string, 0)}

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}

		result.TotalProcessed++

		if err := processRow(ctx, row, config, phraseRepo, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// importFromCSV imports phrases from a CSV file. The expected layout
// matches the Excel one: source text in the first configured column,
// target text in the second.
func importFromCSV(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	phraseRepo := database.NewPhraseRepository()
	result := &ImportResult{Errors: make([]string, 0)}

	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %v", err)
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}

		result.TotalProcessed++

		if err := processRow(ctx, row, config, phraseRepo, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		}
	}

	return result, nil
}

// processRow extracts one sentence pair from a row and stores it,
// skipping exact duplicates of already-cataloged target texts.
func processRow(ctx context.Context, row []string, config ImportConfig,
	phraseRepo *database.PhraseRepository, result *ImportResult) error {

	var sourceText, targetText string
	if colIdx := columnToIndex(config.SourceColumn); colIdx >= 0 && colIdx < len(row) {
		sourceText = strings.TrimSpace(row[colIdx])
	}
	if colIdx := columnToIndex(config.TargetColumn); colIdx >= 0 && colIdx < len(row) {
		targetText = strings.TrimSpace(row[colIdx])
	}

	if sourceText == "" {
		return fmt.Errorf("source text cannot be empty")
	}
	if targetText == "" {
		return fmt.Errorf("target text cannot be empty")
	}

	exists, err := phraseRepo.ExistsByTargetText(ctx, targetText)
	if err != nil {
		return fmt.Errorf("failed to check for existing phrase: %v", err)
	}
	if exists {
		result.Skipped++
		return nil
	}

	phrase := &models.Phrase{
		SourceText: sourceText,
		TargetText: targetText,
	}
	if err := phraseRepo.Create(ctx, phrase); err != nil {
		return fmt.Errorf("failed to create phrase: %v", err)
	}
	result.Created++

	return nil
}

// columnToIndex converts an Excel column letter to a zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
