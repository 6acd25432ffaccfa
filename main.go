package main

import (
	"context"
	"fmt"
	"os"

	"ppigraph/internal/config"
	"ppigraph/internal/logger"
	"ppigraph/internal/pipeline"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(logger.Options{Debug: cfg.Log.Debug})

	// 2. Build edge list, matrix and report
	b := pipeline.NewBuild(cfg)
	res, err := b.Run(context.Background())
	if err != nil {
		logger.Error("build failed", "err", err)
		os.Exit(1)
	}

	fmt.Printf("Total PPI: %d\n", res.Stats.Edges)
	fmt.Printf("Unique gene symbols: %d\n", res.Stats.UniqueSymbols)
	fmt.Printf("Problem symbols: %d (%d lines)\n", res.Stats.ProblemSymbols, res.Stats.ProblemLines)
}
