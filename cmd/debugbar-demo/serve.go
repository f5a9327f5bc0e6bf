package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/evan-idocoding/debugbar"
	"github.com/evan-idocoding/debugbar/access"
	"github.com/evan-idocoding/debugbar/cache"
	"github.com/evan-idocoding/debugbar/cron"
	"github.com/evan-idocoding/debugbar/csrf"
	"github.com/evan-idocoding/debugbar/ops"
	"github.com/evan-idocoding/debugbar/settings"
)

var (
	serveConfigPath string
	serveListen     string
	serveNoColor    bool
)

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "debugbar-demo.toml", "configuration file (TOML)")
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides the config file)")
	serveCmd.Flags().BoolVar(&serveNoColor, "no-color", false, "disable colored output")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the demo site",
	RunE: func(cmd *cobra.Command, args []string) error {
		optional := !cmd.Flags().Changed("config")
		cfg, err := loadConfig(os.DirFS("."), serveConfigPath, optional)
		if err != nil {
			return err
		}
		if serveListen != "" {
			cfg.Listen = serveListen
		}
		d, err := newDemo(cfg, os.Stderr)
		if err != nil {
			return err
		}
		printBanner(cmd.OutOrStdout(), cfg, serveNoColor)
		return d.service.Run(cmd.Context())
	},
}

// demo is the assembled demo server.
type demo struct {
	cfg      Config
	logger   *slog.Logger
	ring     *ops.LogRing
	sessions *access.JWTResolver
	accounts *access.Accounts
	jobs     *cron.Runner
	caches   *cache.Registry
	pages    *cache.Memory[string, string]
	bar      *debugbar.Bar
	service  *debugbar.Service
}

func newDemo(cfg Config, logOut io.Writer) (*demo, error) {
	d := &demo{cfg: cfg, ring: ops.NewLogRing(cfg.LogRing)}

	level := new(slog.LevelVar)
	level.Set(cfg.level())
	d.logger = slog.New(d.ring.Handler(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: level}), level))

	sessions, err := access.NewJWTResolver(deriveKey(cfg.Secret, "session"), access.WithSessionTTL(8*time.Hour))
	if err != nil {
		return nil, err
	}
	d.sessions = sessions

	d.accounts = access.NewAccounts(0)
	for _, u := range cfg.Users {
		if err := d.accounts.Add(u.Name, u.Password, roleCapabilities(u.Role)...); err != nil {
			return nil, err
		}
	}

	d.jobs = cron.NewRunner(cron.WithLogger(d.logger))
	d.jobs.MustAdd("expire-pages", func(ctx context.Context) error {
		d.logger.InfoContext(ctx, "cron: page cache size", slog.Int("entries", d.pages.Len()))
		return nil
	})
	d.jobs.MustAdd("heartbeat", func(ctx context.Context) error {
		d.logger.InfoContext(ctx, "cron: heartbeat")
		return nil
	})

	d.pages = cache.NewMemory[string, string](time.Minute)
	d.caches = cache.NewRegistry(cache.WithLogger(d.logger))
	d.caches.MustAdd("pages", d.pages.Flush)

	store, err := openSettings(cfg.SettingsFile)
	if err != nil {
		return nil, err
	}

	d.bar = debugbar.New(debugbar.Spec{
		Prefix:   cfg.Prefix,
		Logger:   d.logger,
		Resolver: d.sessions,
		Settings: store,
		Tokens:   csrf.New(deriveKey(cfg.Secret, "csrf")),
		Jobs:     d.jobs,
		Caches:   d.caches,
		LogRing:  d.ring,
		StatusProviders: []ops.StatusProvider{func(context.Context) []ops.Section {
			return []ops.Section{{Name: "demo", Items: []ops.KV{
				{Key: "accounts", Value: fmt.Sprint(len(cfg.Users))},
				{Key: "cached_pages", Value: fmt.Sprint(d.pages.Len())},
			}}}
		}},
	})

	d.service = debugbar.NewService(debugbar.ServiceSpec{
		Addr:    cfg.Listen,
		Handler: d.router(),
		Bar:     d.bar,
		Logger:  d.logger,
	})
	return d, nil
}

// openSettings returns the settings store, installing defaults on first run.
func openSettings(path string) (settings.Store, error) {
	if path == "" {
		return settings.NewMemoryStore(settings.Default()), nil
	}
	fsStore := settings.NewFileStore(path)
	_, ok, err := fsStore.Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		if err := fsStore.Save(settings.Default()); err != nil {
			return nil, err
		}
	}
	return fsStore, nil
}

// deriveKey returns HMAC-SHA256(secret, label), giving each signer its own key.
func deriveKey(secret, label string) []byte {
	m := hmac.New(sha256.New, []byte(secret))
	m.Write([]byte(label))
	return m.Sum(nil)
}
