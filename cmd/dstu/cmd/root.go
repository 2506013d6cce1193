package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"dstu/internal/auth"
	"dstu/internal/cache"
	"dstu/internal/config"
	dstuRepo "dstu/internal/domain/repositories/dstu"
	dstusvc "dstu/internal/domain/services/dstu"
	"dstu/internal/repository/rpc"
	serviceDstu "dstu/internal/service/dstu"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

var (
	profilePath string
	verifyToken bool

	cfg         *config.Config
	logger      *slog.Logger
	registry    *cache.Registry
	invalidator *cache.Invalidator
	backend     dstuRepo.Backend
	watcher     dstuRepo.Watcher
	locations   dstusvc.ResourceLocationService
	resources   dstusvc.ResourceService
)

var rootCmd = &cobra.Command{
	Use:   "dstu",
	Short: "Browse and manipulate a DSTU resource tree",
	Long: `dstu is a command-line client for a DSTU backend: it resolves paths
to resources, lists folders, moves resources one at a time or in batches,
and manages the trash - all through the remote procedure surface, with
client-side cache invalidation applied after every successful mutation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		// Load .env file (silently ignore if it doesn't exist)
		_ = godotenv.Load()

		cfg = config.Load()
		profile, err := config.LoadProfile(profilePath)
		if err != nil {
			return err
		}
		profile.Apply(cfg)

		logger = setupLogger(cfg)

		if verifyToken && cfg.AccessToken != "" {
			verifier, err := auth.NewTokenVerifier(cfg.JWKSURL, logger)
			if err != nil {
				return fmt.Errorf("initialize token verifier: %w", err)
			}
			defer verifier.Close()
			if _, err := verifier.VerifyToken(cfg.AccessToken); err != nil {
				return err
			}
		}

		client := rpc.NewClient(&rpc.ClientConfig{
			BaseURL:     cfg.BackendURL,
			AccessToken: cfg.AccessToken,
			Logger:      logger,
		})
		backend = rpc.NewBackend(client)
		watcher = rpc.NewWatcher(client)

		registry = cache.NewRegistry(logger)
		invalidator = cache.NewInvalidator(registry, logger, cfg.Debug)
		naming := serviceDstu.NewNamingService(logger)
		locations = serviceDstu.NewResourceLocationService(backend, invalidator, logger)
		resources = serviceDstu.NewResourceService(backend, naming, invalidator, logger)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", config.DefaultProfilePath(), "path to the client profile file")
	rootCmd.PersistentFlags().BoolVar(&verifyToken, "verify-token", false, "verify the access token against the backend JWKS before running")
}

// setupLogger follows the environment: human-readable colored output in dev,
// JSON in prod.
func setupLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	if cfg.Environment == "prod" {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: level}))
}
