package ontograph

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soundprediction/ontograph/pkg/config"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import an ontology data source and write a parquet snapshot",
	Long: `Import an ontology data source (PrimeKG-style edge table or SNOMED CT
RF2 release) into an in-memory graph and write the result as a parquet
snapshot that the server can load at startup.`,
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().String("edges-csv", "", "PrimeKG-style edge table to import")
	importCmd.Flags().String("snomed-dir", "", "SNOMED CT RF2 directory to import")
	importCmd.Flags().String("out", "", "Output snapshot directory (required)")
	importCmd.MarkFlagRequired("out")
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	overrideImportFlags(cmd, cfg)

	if cfg.Ontology.EdgesCSV == "" && cfg.Ontology.SnomedDir == "" {
		return fmt.Errorf("nothing to import: provide --edges-csv or --snomed-dir")
	}

	logger := newLogger(cfg)
	client, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	out, _ := cmd.Flags().GetString("out")
	if err := client.SaveSnapshot(out); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	stats := client.Stats()
	fmt.Printf("Snapshot written to %s: %d nodes, %d edges (%d is-a)\n",
		out, stats.Nodes, stats.Edges, stats.IsAEdges)
	return nil
}

func overrideImportFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("edges-csv") {
		cfg.Ontology.EdgesCSV, _ = cmd.Flags().GetString("edges-csv")
	}
	if cmd.Flags().Changed("snomed-dir") {
		cfg.Ontology.SnomedDir, _ = cmd.Flags().GetString("snomed-dir")
	}
	// The import command never reads a prior snapshot.
	cfg.Ontology.SnapshotPath = ""
	cfg.Matcher.PatternFiles = nil
	cfg.Matcher.UseKnowledgeGraph = false
}
