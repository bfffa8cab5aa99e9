package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDateAddDays(t *testing.T) {
	tests := []struct {
		start Date
		days  int
		want  string
	}{
		{NewDate(2024, time.January, 1), 1, "2024-01-02"},
		{NewDate(2024, time.January, 31), 1, "2024-02-01"},
		{NewDate(2024, time.February, 28), 1, "2024-02-29"},
		{NewDate(2023, time.December, 31), 2, "2024-01-02"},
		{NewDate(2024, time.March, 1), -1, "2024-02-29"},
		{NewDate(2024, time.March, 10), 0, "2024-03-10"},
	}
	for _, tt := range tests {
		if got := tt.start.AddDays(tt.days).String(); got != tt.want {
			t.Errorf("%s.AddDays(%d) = %s, want %s", tt.start, tt.days, got, tt.want)
		}
	}
}

func TestDateOfIgnoresTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	morning := time.Date(2024, time.May, 3, 0, 30, 0, 0, loc)
	evening := time.Date(2024, time.May, 3, 23, 59, 0, 0, loc)
	if !DateOf(morning).Equal(DateOf(evening)) {
		t.Errorf("DateOf(%v) != DateOf(%v)", morning, evening)
	}
	if got := DateOf(morning).String(); got != "2024-05-03" {
		t.Errorf("DateOf(%v) = %s, want 2024-05-03", morning, got)
	}
}

func TestDateDaysUntil(t *testing.T) {
	a := NewDate(2024, time.February, 27)
	b := NewDate(2024, time.March, 2)
	if got := a.DaysUntil(b); got != 4 {
		t.Errorf("DaysUntil = %d, want 4", got)
	}
	if got := b.DaysUntil(a); got != -4 {
		t.Errorf("DaysUntil = %d, want -4", got)
	}
}

func TestDateScan(t *testing.T) {
	want := NewDate(2024, time.June, 15)
	inputs := []interface{}{
		"2024-06-15",
		[]byte("2024-06-15"),
		"2024-06-15 00:00:00+00:00",
		time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
	}
	for _, in := range inputs {
		var d Date
		if err := d.Scan(in); err != nil {
			t.Fatalf("Scan(%v): %v", in, err)
		}
		if !d.Equal(want) {
			t.Errorf("Scan(%v) = %s, want %s", in, d, want)
		}
	}

	var d Date
	if err := d.Scan(nil); err != nil || !d.IsZero() {
		t.Errorf("Scan(nil) = %s, %v; want zero date", d, err)
	}
	if err := d.Scan(42); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Scan(42) error = %v, want ErrInvalidDate", err)
	}
	if err := d.Scan("not-a-date"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("Scan(not-a-date) error = %v, want ErrInvalidDate", err)
	}
}

func TestDateValue(t *testing.T) {
	v, err := NewDate(2024, time.June, 5).Value()
	if err != nil {
		t.Fatal(err)
	}
	if v != "2024-06-05" {
		t.Errorf("Value() = %v, want 2024-06-05", v)
	}
	if v, _ := (Date{}).Value(); v != nil {
		t.Errorf("zero Value() = %v, want nil", v)
	}
}

func TestDateJSON(t *testing.T) {
	card := Flashcard{ID: 1, DueDate: NewDate(2024, time.July, 1)}
	data, err := json.Marshal(card)
	if err != nil {
		t.Fatal(err)
	}
	var back Flashcard
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.DueDate.Equal(card.DueDate) {
		t.Errorf("round trip due date = %s, want %s", back.DueDate, card.DueDate)
	}
}

func TestFlashcardIsDue(t *testing.T) {
	card := Flashcard{DueDate: NewDate(2024, time.July, 2)}
	if card.IsDue(NewDate(2024, time.July, 1)) {
		t.Error("card due tomorrow reported as due today")
	}
	if !card.IsDue(NewDate(2024, time.July, 2)) {
		t.Error("card not due on its due date")
	}
	if !card.IsDue(NewDate(2024, time.July, 9)) {
		t.Error("overdue card not reported as due")
	}
}
