// ABOUTME: Root command wiring configuration, logging, storage, and the record store.
// ABOUTME: Every subcommand receives the opened App rather than package globals.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harper/promptlib/internal/config"
	"github.com/harper/promptlib/internal/kv"
	"github.com/harper/promptlib/internal/logging"
	"github.com/harper/promptlib/internal/store"
	"github.com/harper/promptlib/internal/ui"
)

// skipStore marks commands that run without opening storage.
const skipStore = "skip-store"

// App holds everything a command needs once storage is open.
type App struct {
	cfgFile string
	driver  string

	cfg       *config.Manager
	log       *zap.Logger
	logCloser io.Closer
	kv        kv.Store
	store     *store.Store
	theme     *ui.ThemeStore
	clipboard ui.Clipboard
	now       func() time.Time
	in        io.Reader
}

func (a *App) open() error {
	cfg, err := config.NewManager(a.cfgFile)
	if err != nil {
		return err
	}
	if a.driver != "" {
		if err := cfg.Set("storage.driver", a.driver); err != nil {
			return err
		}
	}
	a.cfg = cfg

	log, closer, err := logging.New(cfg.Get().Log)
	if err != nil {
		return err
	}
	a.log, a.logCloser = log, closer

	backend, err := kv.Open(cfg.Get().Storage, log)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	a.kv = backend

	st, err := store.Open(kv.NewSlot(backend, kv.RecordsKey), store.WithLogger(log))
	if err != nil {
		return err
	}
	a.store = st
	a.theme = ui.NewThemeStore(kv.NewSlot(backend, kv.ThemeKey))

	log.Debug("storage opened",
		zap.String("driver", cfg.Get().Storage.Driver),
		zap.Int("prompts", st.Len()))
	return nil
}

func (a *App) close() error {
	var errs []error
	if a.kv != nil {
		errs = append(errs, a.kv.Close())
		a.kv = nil
	}
	if a.log != nil {
		_ = a.log.Sync() // stderr sync fails on some terminals
	}
	if a.logCloser != nil {
		errs = append(errs, a.logCloser.Close())
		a.logCloser = nil
	}
	return errors.Join(errs...)
}

// warnPersist prints a warning for a persistence failure and swallows it.
// Any other error is returned.
func warnPersist(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrPersist) {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Warning("Saved in memory only, the change may not survive a restart: "+err.Error()))
		return nil
	}
	return err
}

func newRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "promptlib",
		Short:         "A personal prompt library",
		Long:          `Save, rate, search, copy, export and import your favorite prompts.`,
		Version:       fmt.Sprintf("%s (%s, %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipStore] == "true" {
				return nil
			}
			return app.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
	}

	root.PersistentFlags().StringVar(&app.cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/promptlib/config.yaml)")
	root.PersistentFlags().StringVar(&app.driver, "driver", "", "storage driver: badger, sqlite, redis or memory")

	root.AddCommand(
		newAddCmd(app),
		newListCmd(app),
		newShowCmd(app),
		newRateCmd(app),
		newRmCmd(app),
		newCopyCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newThemeCmd(app),
		newMCPCmd(app),
		newConfigCmd(app),
	)
	return root
}

func newApp() *App {
	return &App{
		clipboard: ui.NewClipboard(),
		now:       time.Now,
		in:        os.Stdin,
	}
}

func Execute() error {
	app := newApp()
	root := newRootCmd(app)
	err := root.Execute()
	if err != nil {
		// PostRun is skipped when RunE fails
		_ = app.close()
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
	}
	return err
}
