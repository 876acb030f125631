package scheduler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/config"
)

const backupStampLayout = "20060102_150405"

// Reporter produces the text pushed by the report job.
type Reporter interface {
	DailySummary(ctx context.Context, day time.Time) (string, error)
}

// Exporter writes table snapshots for the backup job.
type Exporter interface {
	Stock(ctx context.Context, w io.Writer) error
	Ledger(ctx context.Context, w io.Writer) error
}

// Notifier delivers report text.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	reporter Reporter
	exporter Exporter
	notifier Notifier
	cfg      config.ScheduleConfig
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a new scheduler instance. Jobs run in cfg.Timezone.
func NewScheduler(cfg config.ScheduleConfig, reporter Reporter, exporter Exporter, notifier Notifier, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %s: %w", cfg.Timezone, err)
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		reporter: reporter,
		exporter: exporter,
		notifier: notifier,
		cfg:      cfg,
		location: loc,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Start registers the configured jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.cfg.ReportCron != "" {
		if _, err := s.cron.AddFunc(s.cfg.ReportCron, s.sendDailyReport); err != nil {
			return fmt.Errorf("schedule daily report %q: %w", s.cfg.ReportCron, err)
		}
		s.logger.Info("daily report scheduled", zap.String("cron", s.cfg.ReportCron))
	}

	if s.cfg.BackupCron != "" {
		if _, err := s.cron.AddFunc(s.cfg.BackupCron, s.backupTables); err != nil {
			return fmt.Errorf("schedule backup %q: %w", s.cfg.BackupCron, err)
		}
		s.logger.Info("table backup scheduled", zap.String("cron", s.cfg.BackupCron), zap.String("dir", s.cfg.BackupDir))
	}

	s.logger.Info("starting scheduler", zap.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sendDailyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.runDailyReport(ctx); err != nil {
		s.logger.Error("daily report failed", zap.Error(err))
		return
	}
	s.logger.Info("daily report sent successfully")
}

func (s *Scheduler) runDailyReport(ctx context.Context) error {
	if s.reporter == nil || s.notifier == nil {
		return fmt.Errorf("report job is not wired")
	}

	report, err := s.reporter.DailySummary(ctx, s.now().In(s.location))
	if err != nil {
		return fmt.Errorf("generate daily report: %w", err)
	}

	return s.notifier.Send(ctx, report)
}

func (s *Scheduler) backupTables() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	paths, err := s.runBackup(ctx)
	if err != nil {
		s.logger.Error("table backup failed", zap.Error(err))
		return
	}
	s.logger.Info("tables backed up", zap.Strings("files", paths))
}

func (s *Scheduler) runBackup(ctx context.Context) ([]string, error) {
	if s.exporter == nil {
		return nil, fmt.Errorf("backup job is not wired")
	}

	if err := os.MkdirAll(s.cfg.BackupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	stamp := s.now().In(s.location).Format(backupStampLayout)
	stockPath := filepath.Join(s.cfg.BackupDir, "stok_"+stamp+".xlsx")
	ledgerPath := filepath.Join(s.cfg.BackupDir, "mutasi_"+stamp+".xlsx")

	if err := writeFile(stockPath, func(w io.Writer) error { return s.exporter.Stock(ctx, w) }); err != nil {
		return nil, err
	}
	if err := writeFile(ledgerPath, func(w io.Writer) error { return s.exporter.Ledger(ctx, w) }); err != nil {
		return nil, err
	}

	return []string{stockPath, ledgerPath}, nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
