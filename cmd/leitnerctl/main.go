// Command leitnerctl performs administrative tasks on the flashcard store.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/example/leitnerbot/internal/config"
	"github.com/example/leitnerbot/internal/database"
	"github.com/example/leitnerbot/internal/excel"
	"github.com/example/leitnerbot/internal/review"
	"github.com/example/leitnerbot/internal/scheduler"
)

const usage = `Usage: leitnerctl [--config FILE] [--driver NAME] [--dsn DSN] <command> [flags]

Commands:
  import     --user ID --file PATH [--sheet NAME] [--question-col A] [--answer-col B]
  remind-at  --user ID --time HH:MM|off
  boxes      --user ID
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		fmt.Fprintf(os.Stderr, "leitnerctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	global := pflag.NewFlagSet("leitnerctl", pflag.ContinueOnError)
	global.SetInterspersed(false)
	configPath := global.StringP("config", "c", os.Getenv("CONFIG_PATH"), "path to a config file")
	driver := global.String("driver", "", "database driver, overrides the config")
	dsn := global.String("dsn", "", "database DSN, overrides the config")
	if err := global.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	rest := global.Args()
	if len(rest) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *driver != "" {
		cfg.Database.Driver = *driver
	}
	if *dsn != "" {
		cfg.Database.DSN = *dsn
	}

	store, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer store.Close()

	switch rest[0] {
	case "import":
		return runImport(ctx, cfg, store, rest[1:], out)
	case "remind-at":
		return runRemindAt(ctx, store, rest[1:], out)
	case "boxes":
		return runBoxes(ctx, store, rest[1:], out)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, rest[0])
}

func runImport(ctx context.Context, cfg *config.Config, store *database.Store, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("import", pflag.ContinueOnError)
	userID := fs.Int64("user", 0, "owner of the imported cards")
	file := fs.String("file", "", "spreadsheet to import (.xlsx or .csv)")
	defaults := excel.DefaultImportConfig()
	sheet := fs.String("sheet", defaults.SheetName, "sheet name, first sheet if empty")
	questionCol := fs.String("question-col", defaults.QuestionColumn, "column holding the question")
	answerCol := fs.String("answer-col", defaults.AnswerColumn, "column holding the answer")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *userID == 0 || *file == "" {
		return fmt.Errorf("%w: import needs --user and --file", errUsage)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	coordinator := review.NewCoordinator(store, review.Config{Location: loc})
	importer := excel.NewImporter(coordinator, excel.ImportConfig{
		QuestionColumn: *questionCol,
		AnswerColumn:   *answerCol,
		SheetName:      *sheet,
		StartRow:       defaults.StartRow,
	})

	result, err := importer.ImportFile(ctx, *userID, *file, coordinator.Today())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "processed %d rows: %d created, %d skipped\n", result.TotalProcessed, result.Created, result.Skipped)
	for _, e := range result.Errors {
		fmt.Fprintf(out, "  %s\n", e)
	}
	return nil
}

func runRemindAt(ctx context.Context, store *database.Store, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("remind-at", pflag.ContinueOnError)
	userID := fs.Int64("user", 0, "user to configure")
	at := fs.String("time", "", "time of day as HH:MM, or off to remind on every sweep")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *userID == 0 || *at == "" {
		return fmt.Errorf("%w: remind-at needs --user and --time", errUsage)
	}

	var hhmm *string
	if !strings.EqualFold(*at, "off") {
		if !scheduler.ValidReminderTime(*at) {
			return fmt.Errorf("invalid time %q, expected HH:MM", *at)
		}
		hhmm = at
	}
	if err := store.SetReminderTime(ctx, *userID, hhmm); err != nil {
		return err
	}

	if hhmm == nil {
		fmt.Fprintf(out, "user %d: fixed reminder time cleared\n", *userID)
	} else {
		fmt.Fprintf(out, "user %d: reminders at %s\n", *userID, *hhmm)
	}
	return nil
}

func runBoxes(ctx context.Context, store *database.Store, args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("boxes", pflag.ContinueOnError)
	userID := fs.Int64("user", 0, "user to report on")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if *userID == 0 {
		return fmt.Errorf("%w: boxes needs --user", errUsage)
	}

	counts, err := store.CountByBox(ctx, *userID)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		fmt.Fprintf(out, "user %d has no cards\n", *userID)
		return nil
	}
	for _, c := range counts {
		fmt.Fprintf(out, "box %d: %d\n", c.Box, c.Count)
	}
	return nil
}
