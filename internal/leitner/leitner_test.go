package leitner

import (
	"testing"
	"time"

	"github.com/example/leitnerbot/pkg/models"
)

var day0 = models.NewDate(2024, time.January, 1)

func TestAdvanceCorrect(t *testing.T) {
	for box := 1; box <= 12; box++ {
		newBox, due := Advance(box, models.Correct, day0)
		if newBox != box+1 {
			t.Errorf("Advance(%d, Correct) box = %d, want %d", box, newBox, box+1)
		}
		want := day0.AddDays(1 << uint(box))
		if !due.Equal(want) {
			t.Errorf("Advance(%d, Correct) due = %s, want %s", box, due, want)
		}
	}
}

func TestAdvanceIncorrect(t *testing.T) {
	for _, box := range []int{1, 2, 3, 7, 20} {
		newBox, due := Advance(box, models.Incorrect, day0)
		if newBox != 1 {
			t.Errorf("Advance(%d, Incorrect) box = %d, want 1", box, newBox)
		}
		if !due.Equal(day0.AddDays(1)) {
			t.Errorf("Advance(%d, Incorrect) due = %s, want %s", box, due, day0.AddDays(1))
		}
	}
}

func TestAdvanceIntervals(t *testing.T) {
	tests := []struct {
		box      int
		wantDays int
	}{
		{1, 2},
		{2, 4},
		{3, 8},
		{4, 16},
	}
	for _, tt := range tests {
		_, due := Advance(tt.box, models.Correct, day0)
		if got := day0.DaysUntil(due); got != tt.wantDays {
			t.Errorf("box %d -> interval %d days, want %d", tt.box, got, tt.wantDays)
		}
	}
}

func TestAdvanceClampsInvalidBox(t *testing.T) {
	newBox, due := Advance(0, models.Correct, day0)
	if newBox != 2 || !due.Equal(day0.AddDays(2)) {
		t.Errorf("Advance(0, Correct) = (%d, %s), want (2, %s)", newBox, due, day0.AddDays(2))
	}
}

func TestSeed(t *testing.T) {
	box, due := Seed(day0)
	if box != 1 {
		t.Errorf("Seed box = %d, want 1", box)
	}
	if !due.Equal(day0.AddDays(1)) {
		t.Errorf("Seed due = %s, want %s", due, day0.AddDays(1))
	}
	if !due.After(day0) {
		t.Error("seeded card is due on its creation day")
	}
}

func TestLifecycleScenario(t *testing.T) {
	box, due := Seed(day0)

	day1 := day0.AddDays(1)
	if !due.Equal(day1) {
		t.Fatalf("created card due %s, want %s", due, day1)
	}

	box, due = Advance(box, models.Correct, day1)
	if box != 2 || !due.Equal(day0.AddDays(3)) {
		t.Fatalf("after correct on day 1: box %d due %s, want box 2 due %s", box, due, day0.AddDays(3))
	}

	box, due = Advance(box, models.Incorrect, due)
	if box != 1 || !due.Equal(day0.AddDays(4)) {
		t.Fatalf("after incorrect on day 3: box %d due %s, want box 1 due %s", box, due, day0.AddDays(4))
	}
}

func TestInterval(t *testing.T) {
	tests := []struct {
		box  int
		want int
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{5, 16},
	}
	for _, tt := range tests {
		if got := Interval(tt.box); got != tt.want {
			t.Errorf("Interval(%d) = %d, want %d", tt.box, got, tt.want)
		}
	}
}
