package ontograph

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/ontograph"
	"github.com/soundprediction/ontograph/pkg/config"
	ontographLogger "github.com/soundprediction/ontograph/pkg/logger"
	"github.com/soundprediction/ontograph/pkg/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Ontograph HTTP server",
	Long: `Start the Ontograph HTTP server to provide REST API access to the
ontology graph engine.

The server provides endpoints for:
- Ingesting nodes and edges
- Building the symbolic embedding index
- Similarity and nearest-neighbor queries
- Term matching in text
- Health checks and Prometheus metrics

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().String("host", "localhost", "Server host")
	serverCmd.Flags().Int("port", 8080, "Server port")
	serverCmd.Flags().String("mode", "debug", "Server mode (debug, release, test)")

	// Data source flags
	serverCmd.Flags().String("edges-csv", "", "PrimeKG-style edge table to load at startup")
	serverCmd.Flags().String("snomed-dir", "", "SNOMED CT RF2 directory to load at startup")
	serverCmd.Flags().String("snapshot", "", "Parquet snapshot directory to load at startup")

	// Matcher flags
	serverCmd.Flags().StringSlice("patterns", nil, "Pattern group files (YAML or JSON)")
	serverCmd.Flags().Bool("kg-matcher", false, "Route matching through the knowledge-graph backend with automaton fallback")
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	overrideConfigWithFlags(cmd, cfg)

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}

	logger := newLogger(cfg)
	client, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	// Create and setup server
	srv := server.New(cfg, client, logger)
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}

// newLogger builds the shared logger from the configured level.
func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(ontographLogger.NewColorHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// buildEngine creates the engine client and loads the configured data
// sources and pattern files.
func buildEngine(cfg *config.Config, logger *slog.Logger) (*ontograph.Client, error) {
	client, err := ontograph.NewClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	if cfg.Ontology.SnapshotPath != "" {
		if _, err := client.LoadSnapshot(cfg.Ontology.SnapshotPath); err != nil {
			return nil, fmt.Errorf("failed to load snapshot: %w", err)
		}
	}
	if cfg.Ontology.EdgesCSV != "" {
		stats, err := client.ImportEdgesCSV(cfg.Ontology.EdgesCSV)
		if err != nil {
			return nil, fmt.Errorf("failed to import edge table: %w", err)
		}
		logger.Info("edge table loaded", "report", stats.Report())
	}
	if cfg.Ontology.SnomedDir != "" {
		stats, err := client.ImportSnomed(cfg.Ontology.SnomedDir)
		if err != nil {
			return nil, fmt.Errorf("failed to import snomed release: %w", err)
		}
		logger.Info("snomed release loaded", "report", stats.Report())
	}

	if len(cfg.Matcher.PatternFiles) > 0 || cfg.Matcher.UseKnowledgeGraph {
		if err := client.InitializeMatcherFromFiles(cfg.Matcher.PatternFiles); err != nil {
			return nil, fmt.Errorf("failed to initialize matcher: %w", err)
		}
	}

	if client.Stats().Nodes > 0 {
		client.BuildEmbeddings()
	}

	return client, nil
}

// overrideConfigWithFlags applies explicitly-set command-line flags on top
// of the loaded configuration.
func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode, _ = cmd.Flags().GetString("mode")
	}
	if cmd.Flags().Changed("edges-csv") {
		cfg.Ontology.EdgesCSV, _ = cmd.Flags().GetString("edges-csv")
	}
	if cmd.Flags().Changed("snomed-dir") {
		cfg.Ontology.SnomedDir, _ = cmd.Flags().GetString("snomed-dir")
	}
	if cmd.Flags().Changed("snapshot") {
		cfg.Ontology.SnapshotPath, _ = cmd.Flags().GetString("snapshot")
	}
	if cmd.Flags().Changed("patterns") {
		cfg.Matcher.PatternFiles, _ = cmd.Flags().GetStringSlice("patterns")
	}
	if cmd.Flags().Changed("kg-matcher") {
		cfg.Matcher.UseKnowledgeGraph, _ = cmd.Flags().GetBool("kg-matcher")
	}
}
