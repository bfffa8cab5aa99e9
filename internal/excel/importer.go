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

	"github.com/example/leitnerbot/internal/review"
	"github.com/example/leitnerbot/pkg/models"
)

// CardSink receives the cards read from a spreadsheet
type CardSink interface {
	SubmitCard(ctx context.Context, userID int64, sub review.Submission, today models.Date) (*models.Flashcard, error)
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	QuestionColumn string // Column with the question
	AnswerColumn   string // Column with the answer
	SheetName      string // Name of the sheet to import, first sheet if empty
	StartRow       int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		QuestionColumn: "A",
		AnswerColumn:   "B",
		StartRow:       1,
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// Format selects the spreadsheet reader
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// FormatOf returns the format implied by a file name
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported file type %q, expected .xlsx or .csv", filepath.Ext(name))
}

// Importer creates cards for a user from spreadsheet rows
type Importer struct {
	sink   CardSink
	config ImportConfig
}

// NewImporter creates an importer writing to sink
func NewImporter(sink CardSink, config ImportConfig) *Importer {
	if config.StartRow < 1 {
		config.StartRow = 1
	}
	return &Importer{sink: sink, config: config}
}

// ImportFile imports cards from an Excel or CSV file
func (im *Importer) ImportFile(ctx context.Context, userID int64, path string, today models.Date) (*ImportResult, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	return im.Import(ctx, userID, f, format, today)
}

// Import reads rows from r and creates one card per row.
// A first row reading "question" is treated as a header.
func (im *Importer) Import(ctx context.Context, userID int64, r io.Reader, format Format, today models.Date) (*ImportResult, error) {
	var rows [][]string
	var err error
	switch format {
	case FormatXLSX:
		rows, err = im.readExcel(r)
	case FormatCSV:
		rows, err = readCSV(r)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}

	qIdx, err := columnIndex(im.config.QuestionColumn)
	if err != nil {
		return nil, err
	}
	aIdx, err := columnIndex(im.config.AnswerColumn)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < im.config.StartRow {
			continue
		}

		question := cell(row, qIdx)
		answer := cell(row, aIdx)

		if rowNum == im.config.StartRow && strings.EqualFold(question, "question") {
			continue
		}
		if question == "" && answer == "" {
			continue
		}

		result.TotalProcessed++
		if question == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: question cannot be empty", rowNum))
			continue
		}

		if _, err := im.sink.SubmitCard(ctx, userID, review.Submission{Question: question, Answer: answer}, today); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		result.Created++
	}

	return result, nil
}

// readExcel returns the rows of the configured sheet
func (im *Importer) readExcel(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := im.config.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	return rows, nil
}

// columnIndex converts an Excel column name to a zero-based index
func columnIndex(column string) (int, error) {
	n, err := excelize.ColumnNameToNumber(column)
	if err != nil {
		return 0, fmt.Errorf("invalid column %q: %w", column, err)
	}
	return n - 1, nil
}

func cell(row []string, idx int) string {
	if idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}
