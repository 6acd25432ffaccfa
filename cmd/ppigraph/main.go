package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"ppigraph/internal/config"
	"ppigraph/internal/graph"
	"ppigraph/internal/logger"
	"ppigraph/internal/pipeline"
	"ppigraph/internal/resolver"
	"ppigraph/internal/storage"
	"ppigraph/internal/symbols"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:           "ppigraph",
		Short:         "Build a gene-symbol interaction network from PSI-MITAB data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd)
		},
	}

	cfg        *config.Config
	configPath string
	debug      bool
)

func main() {
	logger.Init(logger.Options{})
	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", "err", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	pf.BoolVar(&debug, "debug", false, "Enable debug logging")
	pf.String("symbols", "", "Path to the HGNC complete set TSV")
	pf.StringP("db", "d", "", "Path to the SQLite snapshot database (empty disables it)")
	pf.String("matrix", "", "Path of the adjacency matrix output")
	pf.String("report", "", "Path of the JSON run report")

	pf.String("edges", "", "Path of the edge list")
	buildCmd.Flags().String("taxon", "", "Target NCBI taxid")
	buildCmd.Flags().Bool("no-fallback", false, "Never accept an unverified embedded gene name")
	buildCmd.Flags().Bool("skip-matrix", false, "Do not write the adjacency matrix")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(matrixCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(edgeCmd)
}

// loadConfig reads the config file, then applies any flag the user set.
func loadConfig(cmd *cobra.Command) error {
	c, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	str("symbols", &c.Symbols.Path)
	str("db", &c.Store.Path)
	str("matrix", &c.Output.Matrix)
	str("report", &c.Output.Report)
	str("edges", &c.Output.EdgeList)
	str("taxon", &c.Input.TargetTaxon)
	if noFallback, _ := flags.GetBool("no-fallback"); noFallback {
		c.Symbols.AllowFallback = false
	}
	if debug {
		c.Log.Debug = true
	}

	logger.Init(logger.Options{Debug: c.Log.Debug})
	cfg = c
	return nil
}

var buildCmd = &cobra.Command{
	Use:   "build [input]",
	Short: "Scan a MITAB file and write the edge list, matrix and run report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			cfg.Input.Path = args[0]
		}

		b := pipeline.NewBuild(cfg)
		b.SkipMatrix, _ = cmd.Flags().GetBool("skip-matrix")

		res, err := b.Run(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %d interactions to %s\n", res.Stats.Edges, b.EdgeListPath)
		return nil
	},
}

var matrixCmd = &cobra.Command{
	Use:   "matrix [edge-list]",
	Short: "Render an edge list or stored snapshot as an adjacency matrix",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m := &pipeline.MatrixPass{
			EdgeListPath: cfg.Output.EdgeList,
			MatrixPath:   cfg.Output.Matrix,
			ReportPath:   cfg.Output.Report,
		}
		if len(args) > 0 {
			m.EdgeListPath = args[0]
		} else if cfg.Store.Path != "" {
			m.DBPath = cfg.Store.Path
		}

		adj, err := m.Run(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %dx%d matrix to %s\n", adj.Size(), adj.Size(), m.MatrixPath)
		return nil
	},
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols <name>...",
	Short: "Resolve accessions or gene names against the symbol table",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := symbols.LoadFile(cfg.Symbols.Path)
		if err != nil {
			return err
		}
		chain := resolver.NewDefaultChain(table)

		for _, name := range args {
			id := resolver.Identifier{Accession: name, EmbeddedName: name}
			res, ok := chain.Resolve(id, false)
			if !ok {
				fmt.Printf("%s\t-\tunresolved\n", name)
				continue
			}
			fmt.Printf("%s\t%s\t%s\n", name, res.Symbol, res.Strategy)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last build stored in the SQLite snapshot and its problem log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Store.Path == "" {
			return errors.New("no database configured (set --db or store.path)")
		}
		snap, err := pipeline.Status(context.Background(), cfg.Store.Path)
		if errors.Is(err, storage.ErrNoRun) {
			fmt.Printf("No build recorded in %s\n", cfg.Store.Path)
			return nil
		}
		if err != nil {
			return err
		}

		run := snap.Run
		fmt.Printf("Run:      %s\n", run.ID)
		fmt.Printf("Input:    %s\n", run.Input)
		fmt.Printf("Started:  %s\n", run.StartedAt)
		fmt.Printf("Edges:    %d\n", run.Edges)
		fmt.Printf("Problems: %d\n", run.Problems)
		for _, p := range snap.Problems {
			lines := make([]string, len(p.Lines))
			for i, l := range p.Lines {
				lines[i] = fmt.Sprint(l)
			}
			fmt.Printf("  %s\t%s\n", p.Key, strings.Join(lines, ","))
		}
		return nil
	},
}

var edgeCmd = &cobra.Command{
	Use:   "edge <symbol> <symbol>",
	Short: "Show the detection methods recorded for an interaction",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		edges, err := pipeline.LoadEdges(context.Background(), cfg.Output.EdgeList, cfg.Store.Path)
		if err != nil {
			return err
		}
		g := graph.FromEdges(edges)

		a, b := args[0], args[1]
		if !g.Has(a, b) {
			fmt.Printf("%s\t%s\tno interaction\n", a, b)
			return nil
		}
		fmt.Printf("%s\t%s\t%s\n", a, b, strings.Join(g.Methods(a, b), "|"))
		return nil
	},
}
