package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/quill"
	"github.com/aretw0/quill/internal/config"
)

// app carries the resolved settings shared by every command of one run.
type app struct {
	configPath string
	verbose    bool
	readOnly   bool

	storeDir string
	notebook string
	format   string
	quota    int64

	wd     string
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "quill",
		Short: "Notes and tags kept in a small durable store",
		Long: `Quill keeps notes and the tags attached to them in a key-value store.
Tag renames and deletions are reflected in every note on the next read.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&a.configPath, "config", "", "Config file (default ./"+config.FileName+")")
	flags.StringVar(&a.storeDir, "store", "", "Store directory")
	flags.StringVarP(&a.notebook, "notebook", "n", "", "Notebook (namespace) inside the store")
	flags.StringVarP(&a.format, "format", "o", "", "Output format: text, json or yaml")
	flags.Int64Var(&a.quota, "quota", 0, "Maximum store size in bytes (0 = unlimited)")
	flags.BoolVar(&a.readOnly, "read-only", false, "Refuse every write to the store")

	cmd.AddCommand(
		newTagCmd(a),
		newNoteCmd(a),
		newListCmd(a),
		newNotebooksCmd(a),
		newStateCmd(a),
		newVersionCmd(),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	a.wd = wd

	cfg, path, err := config.Load(wd, a.configPath)
	if err != nil {
		return err
	}
	if path != "" {
		a.logger.Debug("config loaded", "path", path)
	}

	flags := cmd.Flags()
	if flags.Changed("store") {
		cfg.StoreDir = a.storeDir
	}
	if flags.Changed("notebook") {
		cfg.Notebook = a.notebook
	}
	if flags.Changed("format") {
		cfg.Format = a.format
	}
	if flags.Changed("quota") {
		cfg.QuotaBytes = a.quota
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) storePath() string {
	if filepath.IsAbs(a.cfg.StoreDir) {
		return a.cfg.StoreDir
	}
	return filepath.Join(a.wd, a.cfg.StoreDir)
}

// open loads the configured notebook. Read-only access never creates the store.
func (a *app) open(write bool) (*quill.Notebook, error) {
	opts := []quill.Option{
		quill.WithLogger(a.logger),
		quill.WithNamespace(a.cfg.Notebook),
	}
	if a.cfg.QuotaBytes > 0 {
		opts = append(opts, quill.WithQuota(a.cfg.QuotaBytes))
	}
	if !write || a.readOnly {
		opts = append(opts, quill.WithReadOnly(true))
	}
	return quill.Open(a.storePath(), opts...)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fatal(errorTitle(err), err)
	}
}

func errorTitle(err error) string {
	if config.IsInvalid(err) {
		return "Configuration error"
	}
	return "Error"
}
