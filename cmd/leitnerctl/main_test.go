package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/leitnerbot/internal/database"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := run(context.Background(), args, &out)
	return out.String(), err
}

func tempDSN(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "cli.db")
}

func TestImportAndBoxes(t *testing.T) {
	dsn := tempDSN(t)
	file := filepath.Join(t.TempDir(), "deck.csv")
	if err := os.WriteFile(file, []byte("question,answer\nuno,one\ndos,two\n,orphan\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "--dsn", dsn, "import", "--user", "7", "--file", file)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "2 created, 1 skipped") {
		t.Errorf("import output = %q", out)
	}

	out, err = runCLI(t, "--dsn", dsn, "boxes", "--user", "7")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "box 1: 2" {
		t.Errorf("boxes output = %q", out)
	}

	out, err = runCLI(t, "--dsn", dsn, "boxes", "--user", "8")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "no cards") {
		t.Errorf("boxes output = %q", out)
	}
}

func TestRemindAt(t *testing.T) {
	dsn := tempDSN(t)

	if _, err := runCLI(t, "--dsn", dsn, "remind-at", "--user", "5", "--time", "07:30"); err != nil {
		t.Fatal(err)
	}
	store, err := database.Open(database.DriverSQLite, dsn)
	if err != nil {
		t.Fatal(err)
	}
	u, err := store.GetUser(context.Background(), 5)
	store.Close()
	if err != nil {
		t.Fatal(err)
	}
	if u.ReminderTime == nil || *u.ReminderTime != "07:30" {
		t.Fatalf("reminder time = %v", u.ReminderTime)
	}

	if _, err := runCLI(t, "--dsn", dsn, "remind-at", "--user", "5", "--time", "off"); err != nil {
		t.Fatal(err)
	}
	store, err = database.Open(database.DriverSQLite, dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	u, err = store.GetUser(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if u.ReminderTime != nil {
		t.Errorf("reminder time = %q, want cleared", *u.ReminderTime)
	}
}

func TestRemindAtRejectsBadTime(t *testing.T) {
	if _, err := runCLI(t, "--dsn", tempDSN(t), "remind-at", "--user", "5", "--time", "7:30pm"); err == nil {
		t.Fatal("expected error for malformed time")
	}
}

func TestUsageErrors(t *testing.T) {
	dsn := tempDSN(t)
	tests := []struct {
		name string
		args []string
	}{
		{"no command", []string{"--dsn", dsn}},
		{"unknown command", []string{"--dsn", dsn, "export"}},
		{"import without file", []string{"--dsn", dsn, "import", "--user", "1"}},
		{"boxes without user", []string{"--dsn", dsn, "boxes"}},
		{"unknown flag", []string{"--dsn", dsn, "boxes", "--verbose"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); !errors.Is(err, errUsage) {
				t.Errorf("error = %v, want errUsage", err)
			}
		})
	}
}
