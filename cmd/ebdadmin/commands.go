package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ebdmanager/internal/calendar"
	"ebdmanager/internal/config"
	"ebdmanager/internal/database"
	"ebdmanager/internal/logging"
	"ebdmanager/internal/reports"
	"ebdmanager/internal/repository"
	"ebdmanager/internal/service"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

var errUsage = errors.New("usage")

type app struct {
	cfg      *config.Config
	db       *database.DB
	logger   zerolog.Logger
	reports  *service.ReportService
	registry *service.RegistryService
	backup   *service.BackupService
	stdin    io.Reader
	stdout   io.Writer
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) < 1 {
		return errUsage
	}
	switch args[0] {
	case "report", "rank", "trend", "lowfreq", "backup":
	default:
		return errUsage
	}

	// Load configuration
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogPretty)
	zlog.Logger = logger

	// Initialize database
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	a, err := newApp(ctx, cfg, db, logger)
	if err != nil {
		return err
	}
	a.stdin = stdin
	a.stdout = stdout

	switch args[0] {
	case "report":
		return a.report(ctx, args[1:])
	case "rank":
		return a.rank(ctx, args[1:])
	case "trend":
		return a.trend(ctx, args[1:])
	case "lowfreq":
		return a.lowFrequency(ctx, args[1:])
	default:
		return a.backupCommand(ctx, args[1:])
	}
}

func newApp(ctx context.Context, cfg *config.Config, db *database.DB, logger zerolog.Logger) (*app, error) {
	studentRepo := repository.NewStudentRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	loader := service.NewSnapshotLoader(
		studentRepo,
		repository.NewClassRepository(db),
		repository.NewTeacherRepository(db),
		repository.NewAttendanceRepository(db),
		nil,
		logger,
	)

	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.Debug, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email service: %w", err)
	}

	return &app{
		cfg:      cfg,
		db:       db,
		logger:   logger,
		reports:  service.NewReportService(loader, settingsRepo, cfg.ChurchSettings(), nil, logger),
		registry: service.NewRegistryService(loader, studentRepo, settingsRepo, cfg.ChurchSettings(), emailService, cfg.SecretaryEmail, nil, logger),
		backup:   service.NewBackupService(db, logger),
	}, nil
}

// windowFlags registers the shared -granularity and -date flags.
func windowFlags(fs *flag.FlagSet) (*string, *string) {
	granularity := fs.String("granularity", "month", "Window size: day, month, quarter or year")
	date := fs.String("date", "", "Reference date YYYY-MM-DD (default: today)")
	return granularity, date
}

func parseWindow(granularity, date string) (reports.Window, error) {
	return service.ParseWindow(granularity, date, calendar.Today())
}

func (a *app) report(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	granularity, date := windowFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	w, err := parseWindow(*granularity, *date)
	if err != nil {
		return err
	}
	report, err := a.reports.ClassReport(ctx, w)
	if err != nil {
		return err
	}
	return a.writeJSON(report)
}

func (a *app) rank(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rank", flag.ContinueOnError)
	granularity, date := windowFlags(fs)
	query := fs.String("q", "", "Filter by student name")
	classID := fs.String("class", "", "Filter by class ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	w, err := parseWindow(*granularity, *date)
	if err != nil {
		return err
	}
	rows, err := a.reports.StudentRanking(ctx, w, reports.RankingFilter{Name: *query, ClassID: *classID})
	if err != nil {
		return err
	}
	return a.writeJSON(rows)
}

func (a *app) trend(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("trend", flag.ContinueOnError)
	granularity, date := windowFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	w, err := parseWindow(*granularity, *date)
	if err != nil {
		return err
	}
	buckets, err := a.reports.Trend(ctx, w)
	if err != nil {
		return err
	}
	return a.writeJSON(buckets)
}

func (a *app) lowFrequency(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("lowfreq", flag.ContinueOnError)
	apply := fs.Bool("apply", false, "Deactivate flagged students")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*apply {
		preview, err := a.registry.PreviewLowFrequency(ctx)
		if err != nil {
			return err
		}
		return a.writeJSON(preview)
	}

	result, err := a.registry.ApplyLowFrequency(ctx)
	if err != nil {
		return err
	}
	return a.writeJSON(result)
}

func (a *app) backupCommand(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errUsage
	}

	switch args[0] {
	case "export":
		fs := flag.NewFlagSet("export", flag.ContinueOnError)
		output := fs.String("output", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		return a.handleExport(ctx, *output)

	case "import":
		fs := flag.NewFlagSet("import", flag.ContinueOnError)
		input := fs.String("input", "", "Input file path (required)")
		clearData := fs.Bool("clear", false, "Clear existing data before import (WARNING: destructive)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *input == "" {
			return fmt.Errorf("-input flag is required")
		}
		return a.handleImport(ctx, *input, *clearData)

	default:
		return errUsage
	}
}

func (a *app) handleExport(ctx context.Context, outputPath string) error {
	// Generate default filename if not provided
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		outputPath = fmt.Sprintf("backup_%s.json", timestamp)
	}

	// Ensure directory exists
	dir := filepath.Dir(outputPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if err := a.backup.Export(ctx, outputPath); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return a.writeJSON(map[string]string{"output": outputPath})
}

func (a *app) handleImport(ctx context.Context, inputPath string, clearData bool) error {
	// Check if file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", inputPath)
	}

	if clearData {
		fmt.Fprint(os.Stderr, "WARNING: This will delete all existing data. Type 'yes' to confirm: ")
		confirmation, _ := bufio.NewReader(a.stdin).ReadString('\n')
		if strings.TrimSpace(confirmation) != "yes" {
			a.logger.Info().Msg("import cancelled")
			return nil
		}
		if err := clearDatabase(ctx, a.db); err != nil {
			return fmt.Errorf("failed to clear database: %w", err)
		}
	}

	summary, err := a.backup.Import(ctx, inputPath)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	return a.writeJSON(summary)
}

func clearDatabase(ctx context.Context, db *database.DB) error {
	tables := []string{
		"attendance_justifications",
		"attendance_presences",
		"attendance_records",
		"students",
		"teachers",
		"classes",
	}

	return db.WithTx(ctx, func(tx *database.Tx) error {
		for _, table := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear table %s: %w", table, err)
			}
		}
		return nil
	})
}

func (a *app) writeJSON(v any) error {
	encoder := json.NewEncoder(a.stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
