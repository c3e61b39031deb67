package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/SUMITRAUTHAN09/rosca/internal/api"
	"github.com/SUMITRAUTHAN09/rosca/internal/config"
	"github.com/SUMITRAUTHAN09/rosca/internal/dashboard"
	"github.com/SUMITRAUTHAN09/rosca/internal/session"
	"github.com/SUMITRAUTHAN09/rosca/internal/storage"
)

// app carries what every subcommand needs once flags are parsed
type app struct {
	configFile string
	verbose    bool

	cfg      *config.Config
	registry *prometheus.Registry
	session  *session.Context
	client   *api.Client
}

func (a *app) init(cmd *cobra.Command) error {
	// Load .env file if present (ignore errors)
	_ = godotenv.Load()

	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log, a.verbose)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	sess, err := session.Open(cfg.Session.File)
	if err != nil {
		return err
	}
	a.session = sess

	a.registry = prometheus.NewRegistry()
	a.client = api.NewClient(cfg.API.BaseURL, sess,
		api.WithTimeout(cfg.API.Timeout),
		api.WithMetrics(api.NewMetrics(a.registry)),
	)
	slog.Debug("Configuration loaded", "api", cfg.API.BaseURL, "session", cfg.Session.File)
	return nil
}

// dashboard builds a reconciler over a fresh room store
func (a *app) dashboard(notify dashboard.Notifier) *dashboard.Reconciler {
	return dashboard.New(a.client, a.session, storage.New(), notify)
}

func newLogger(w io.Writer, cfg config.LogConfig, verbose bool) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(cfg.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format %q", cfg.Format)
}

func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "rosca",
		Short: "Rental room listings from the command line",
		Long: `Rosca manages rental room listings on the Rosca service.

Hosts can add rooms with photos and videos, keep their listings up to date
and export them. The serve command runs a local companion API that a web
front-end can use for media previews and the owner dashboard.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Config file (default is ./rosca.yaml or ~/.config/rosca/rosca.yaml)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(newServeCmd(a))
	cmd.AddCommand(newLoginCmd(a))
	cmd.AddCommand(newLogoutCmd(a))
	cmd.AddCommand(newRegisterCmd(a))
	cmd.AddCommand(newProfileCmd(a))
	cmd.AddCommand(newRoomsCmd(a))
	cmd.AddCommand(newWishlistCmd(a))

	return cmd
}
