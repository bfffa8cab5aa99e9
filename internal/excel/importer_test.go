package excel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/leitnerbot/internal/database"
	"github.com/example/leitnerbot/internal/review"
	"github.com/example/leitnerbot/pkg/models"
)

var today = models.NewDate(2024, time.September, 1)

type recordingSink struct {
	subs   []review.Submission
	failOn string
	nextID int64
}

func (s *recordingSink) SubmitCard(ctx context.Context, userID int64, sub review.Submission, today models.Date) (*models.Flashcard, error) {
	if sub.Question == s.failOn {
		return nil, errors.New("store unavailable")
	}
	s.subs = append(s.subs, sub)
	s.nextID++
	return &models.Flashcard{ID: s.nextID, UserID: userID, Question: sub.Question}, nil
}

func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()
	const sheet = "Sheet1"
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		for j, value := range row {
			name, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatal(err)
			}
			if err := f.SetCellValue(sheet, name, value); err != nil {
				t.Fatal(err)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "cards.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportExcel(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"Question", "Answer"},
		{"capital of Italy", "Rome"},
		{"", ""},
		{"2 + 2", "4"},
		{"", "orphan answer"},
	})

	sink := &recordingSink{}
	result, err := NewImporter(sink, DefaultImportConfig()).ImportFile(context.Background(), 1, path, today)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if result.Created != 2 || result.Skipped != 1 || result.TotalProcessed != 3 {
		t.Errorf("result = %+v", result)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Row 5") {
		t.Errorf("errors = %v", result.Errors)
	}
	if sink.subs[0].Question != "capital of Italy" || sink.subs[0].Answer != "Rome" {
		t.Errorf("first submission = %+v", sink.subs[0])
	}
}

func TestImportExcelSheetAndColumns(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"ignored", "hello", "bonjour"},
		{"ignored", "cat", "chat"},
	})

	cfg := ImportConfig{QuestionColumn: "B", AnswerColumn: "C", SheetName: "Sheet1", StartRow: 2}
	sink := &recordingSink{}
	result, err := NewImporter(sink, cfg).ImportFile(context.Background(), 1, path, today)
	if err != nil {
		t.Fatal(err)
	}
	if result.Created != 1 || sink.subs[0].Question != "cat" || sink.subs[0].Answer != "chat" {
		t.Errorf("result = %+v subs = %+v", result, sink.subs)
	}
}

func TestImportCSV(t *testing.T) {
	input := "question,answer\nred,rouge\n\"a, b\",c\nfail,x\n"
	sink := &recordingSink{failOn: "fail"}

	result, err := NewImporter(sink, DefaultImportConfig()).Import(context.Background(), 1, strings.NewReader(input), FormatCSV, today)
	if err != nil {
		t.Fatal(err)
	}
	if result.Created != 2 {
		t.Errorf("created = %d, want 2", result.Created)
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "store unavailable") {
		t.Errorf("errors = %v", result.Errors)
	}
	if sink.subs[1].Question != "a, b" {
		t.Errorf("quoted question = %q", sink.subs[1].Question)
	}
}

func TestImportIntoStore(t *testing.T) {
	store, err := database.Open(database.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	coord := review.NewCoordinator(store, review.Config{})

	input := "q1,a1\nq1,a1\n"
	result, err := NewImporter(coord, DefaultImportConfig()).Import(context.Background(), 9, strings.NewReader(input), FormatCSV, today)
	if err != nil {
		t.Fatal(err)
	}
	if result.Created != 2 {
		t.Fatalf("created = %d, want 2 (duplicates allowed)", result.Created)
	}

	cards, err := store.ListAll(context.Background(), 9)
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 2 {
		t.Fatalf("stored %d cards, want 2", len(cards))
	}
	for _, c := range cards {
		if c.Box != 1 || !c.DueDate.Equal(today.AddDays(1)) {
			t.Errorf("imported card box %d due %s", c.Box, c.DueDate)
		}
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"deck.xlsx", FormatXLSX, false},
		{"DECK.XLSX", FormatXLSX, false},
		{"deck.csv", FormatCSV, false},
		{"deck.pdf", "", true},
		{"deck", "", true},
	}
	for _, tt := range tests {
		got, err := FormatOf(tt.name)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("FormatOf(%q) = %q, %v", tt.name, got, err)
		}
	}
}

func TestImportFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.txt")
	if err := os.WriteFile(path, []byte("q,a"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewImporter(&recordingSink{}, DefaultImportConfig()).ImportFile(context.Background(), 1, path, today); err == nil {
		t.Fatal("expected error for .txt file")
	}
}

func TestImportInvalidColumn(t *testing.T) {
	cfg := ImportConfig{QuestionColumn: "1", AnswerColumn: "B"}
	if _, err := NewImporter(&recordingSink{}, cfg).Import(context.Background(), 1, strings.NewReader("q,a"), FormatCSV, today); err == nil {
		t.Fatal("expected error for invalid column")
	}
}
