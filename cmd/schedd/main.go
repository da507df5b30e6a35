package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"schedd/internal/activity"
	"schedd/internal/config"
	"schedd/internal/httpapi"
	"schedd/internal/registry"
	"schedd/internal/scheduler"
	"schedd/internal/upstream"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "schedd",
		Short:         "Context-aware backend scheduler daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	defaultAddr := ":8080"
	if v := os.Getenv("SCHEDD_ADDR"); v != "" {
		defaultAddr = v
	}

	var (
		configPath   string
		addr         string
		backendsFile string
		budgetMB     int
		defaultCtx   string
		activityDB   string
		watch        bool
		corsEnabled  bool
		corsOrigins  []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler HTTP daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := zerolog.New(os.Stderr).With().Timestamp().Logger()

			cfg := config.Config{}
			if configPath != "" {
				var err error
				cfg, err = config.Load(configPath)
				if err != nil {
					return err
				}
			}
			// Flags win over file values when set.
			if cmd.Flags().Changed("addr") || cfg.Addr == "" {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("backends-file") || cfg.BackendsFile == "" {
				cfg.BackendsFile = backendsFile
			}
			if cmd.Flags().Changed("memory-budget-mb") {
				cfg.MemoryBudgetMB = budgetMB
			}
			if cmd.Flags().Changed("default-context") {
				cfg.DefaultContext = defaultCtx
			}
			if cmd.Flags().Changed("activity-db") {
				cfg.ActivityDB = activityDB
			}
			if cmd.Flags().Changed("watch") {
				cfg.WatchBackends = watch
			}
			if cmd.Flags().Changed("cors-enabled") {
				cfg.CORSEnabled = corsEnabled
			}
			if cmd.Flags().Changed("cors-origins") {
				cfg.CORSOrigins = corsOrigins
			}

			return run(cmd.Context(), cfg, log)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a yaml/json/toml config file")
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "HTTP listen address, e.g. :8080")
	cmd.Flags().StringVar(&backendsFile, "backends-file", "backends.yaml", "Descriptor seed file (yaml/json/toml)")
	cmd.Flags().IntVar(&budgetMB, "memory-budget-mb", 0, "Memory budget in MB for all resident backends (0=unbudgeted)")
	cmd.Flags().StringVar(&defaultCtx, "default-context", "", "Context applied at startup and used when requests omit one")
	cmd.Flags().StringVar(&activityDB, "activity-db", "", "Path to the sqlite activity log (empty disables it)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Watch the seed file and register new descriptors on change")
	cmd.Flags().BoolVar(&corsEnabled, "cors-enabled", false, "Enable CORS middleware")
	cmd.Flags().StringSliceVar(&corsOrigins, "cors-origins", []string{"*"}, "Allowed CORS origins")
	return cmd
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	reg := registry.New()
	descs, err := registry.LoadFile(cfg.BackendsFile)
	if err != nil {
		return err
	}
	for _, d := range descs {
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	log.Info().Int("backends", reg.Len()).Str("seed", cfg.BackendsFile).Msg("registry loaded")

	var publisher scheduler.EventPublisher
	opts := httpapi.Options{
		Registry:    reg,
		CORSEnabled: cfg.CORSEnabled,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      log,
	}
	if cfg.ActivityDB != "" {
		store, err := activity.Open(cfg.ActivityDB, 0, log)
		if err != nil {
			return err
		}
		defer store.Close()
		publisher = store
		opts.Activity = store
	}

	sch := scheduler.NewWithConfig(scheduler.Config{
		Registry:         reg,
		Factory:          upstream.Factory(log),
		BudgetMB:         cfg.MemoryBudgetMB,
		HighWatermarkPct: cfg.HighWatermarkPct,
		LowWatermarkPct:  cfg.LowWatermarkPct,
		DefaultContext:   cfg.DefaultContext,
		ServeTimeout:     time.Duration(cfg.ServeTimeoutMs) * time.Millisecond,
		Publisher:        publisher,
		Logger:           &log,
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.DefaultContext != "" {
		res := sch.SetContext(runCtx, cfg.DefaultContext)
		if len(res.Errors) > 0 {
			log.Warn().Interface("errors", res.Errors).Msg("startup context applied with errors")
		}
	}
	if cfg.WatchBackends {
		go func() {
			if err := registry.Watch(runCtx, reg, cfg.BackendsFile, log); err != nil && runCtx.Err() == nil {
				log.Warn().Err(err).Msg("seed watcher stopped")
			}
		}()
	}

	mux := httpapi.NewMux(sch, opts)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("schedd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case <-runCtx.Done():
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
