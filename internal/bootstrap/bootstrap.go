package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	journalinadapter "stillpoint/internal/modules/journal/adapter/in"
	journaloutadapter "stillpoint/internal/modules/journal/adapter/out"
	journalout "stillpoint/internal/modules/journal/port/out"
	journalservice "stillpoint/internal/modules/journal/service"
	journalusecase "stillpoint/internal/modules/journal/usecase"
	progressinadapter "stillpoint/internal/modules/progress/adapter/in"
	progressoutadapter "stillpoint/internal/modules/progress/adapter/out"
	"stillpoint/internal/modules/progress/domain"
	progressservice "stillpoint/internal/modules/progress/service"
	progressusecase "stillpoint/internal/modules/progress/usecase"
	"stillpoint/internal/platform/clock"
	"stillpoint/internal/platform/config"
	"stillpoint/internal/platform/id"
	"stillpoint/internal/platform/kv"
	"stillpoint/internal/platform/logger"
	"stillpoint/internal/platform/tx"
	uiapp "stillpoint/internal/ui/app"
)

type App struct {
	Config      config.Config
	ProgressCLI progressinadapter.CLIHandler
	JournalCLI  journalinadapter.CLIHandler

	closers []func() error
}

func New(cfg config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	clk, err := newClock(cfg.Timezone)
	if err != nil {
		return nil, err
	}
	policy, err := StagePolicy(cfg.Stage)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg}
	backend, db := openBackend(cfg, log)
	if db != nil {
		app.closers = append(app.closers, db.Close)
	}
	index := openSearchIndex(cfg, db, log, app)

	progressStore := progressoutadapter.NewKVDocumentStore(backend, clk, id.UUIDv7{}, log)
	progressUC := progressusecase.NewInteractor(progressservice.NewProgressService(progressStore, policy, &tx.Serial{}), clk)

	exportDir := filepath.Join(cfg.DataDir, "journal")
	journalSvc := journalservice.NewJournalService(
		journaloutadapter.NewKVArchiveStore(backend, log),
		index,
		journaloutadapter.NewVaultNoteExporter(exportDir),
		&tx.Serial{},
	)
	journalUC := journalusecase.NewInteractor(journalSvc, progressUC, clk, exportDir)

	app.ProgressCLI = progressinadapter.NewCLIHandler(progressUC)
	app.JournalCLI = journalinadapter.NewCLIHandler(journalUC)
	log.Debug("app ready", "backend", cfg.Backend, "data_dir", cfg.DataDir)
	return app, nil
}

// openBackend picks the storage medium. A backend that cannot be opened
// degrades to Unavailable so every read still serves defaults.
func openBackend(cfg config.Config, log *logger.Logger) (kv.Backend, *sql.DB) {
	switch cfg.Backend {
	case config.BackendMemory:
		return kv.NewMemoryBackend(), nil
	case config.BackendSQLite:
		backend, err := kv.NewSQLiteBackend(cfg.DBPath)
		if err != nil {
			log.Warn("sqlite storage unavailable, progress will not be saved", "path", cfg.DBPath, "error", err)
			return kv.Unavailable{}, nil
		}
		return backend, backend.DB()
	default:
		backend, err := kv.NewFileBackend(filepath.Join(cfg.StateDir, "store"))
		if err != nil {
			log.Warn("file storage unavailable, progress will not be saved", "dir", cfg.StateDir, "error", err)
			return kv.Unavailable{}, nil
		}
		return backend, nil
	}
}

// openSearchIndex shares the sqlite handle when the backend has one and
// otherwise opens the database file on its own.
func openSearchIndex(cfg config.Config, db *sql.DB, log *logger.Logger, app *App) journalout.SearchIndex {
	if db == nil {
		opened, err := kv.OpenSQLite(cfg.DBPath)
		if err != nil {
			log.Warn("journal search disabled", "path", cfg.DBPath, "error", err)
			return nil
		}
		app.closers = append(app.closers, opened.Close)
		db = opened
	}
	index, err := journaloutadapter.NewSQLiteSearchIndex(db)
	if err != nil {
		log.Warn("journal search disabled", "error", err)
		return nil
	}
	return index
}

func newClock(timezone string) (clock.Clock, error) {
	if timezone == "" {
		return clock.Local{Location: time.Local}, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return clock.Local{Location: loc}, nil
}

// StagePolicy overlays the configured thresholds on the built-in ladder.
func StagePolicy(c config.StageConfig) (domain.StagePolicy, error) {
	policy := domain.DefaultStagePolicy()
	if c.MinSessions > 0 {
		policy.MinSessions = c.MinSessions
	}
	if c.MinCompletionRate > 0 {
		policy.MinCompletionRate = c.MinCompletionRate
	}
	if c.CompletedSessionMinutes > 0 {
		policy.CompletedSessionMinutes = uint(c.CompletedSessionMinutes)
	}
	if len(c.Ladder) > 0 {
		policy.Ladder = make([]domain.StageRule, 0, len(c.Ladder))
		for _, r := range c.Ladder {
			policy.Ladder = append(policy.Ladder, domain.StageRule{
				Stage:          r.Stage,
				CompletionRate: r.CompletionRate,
				AverageMinutes: r.AverageMinutes,
				DistinctDays:   r.DistinctDays,
			})
		}
	}
	if err := policy.Validate(); err != nil {
		return domain.StagePolicy{}, fmt.Errorf("stage_policy: %w", err)
	}
	return policy, nil
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.ProgressCLI, app.JournalCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
