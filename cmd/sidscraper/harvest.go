// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/sidscraper/internal/catalog"
	"github.com/pdiddy/sidscraper/internal/httputil"
	"github.com/pdiddy/sidscraper/internal/output"
	"github.com/pdiddy/sidscraper/internal/pipeline"
	"github.com/pdiddy/sidscraper/internal/store"
)

func runHarvest(cmd *cobra.Command, args []string) error {
	cfg := runConfig()
	ctx := cmd.Context()

	// Configuration problems are reported before any request is made.
	path, err := output.ResolvePath(cfg.Output.Directory, cfg.Output.FileName)
	if err != nil {
		return err
	}

	client := httputil.NewClient(cfg.HTTP, logger)

	fmt.Fprint(os.Stderr, "Extracting family names...")
	families, err := catalog.Build(ctx, client, cfg.Catalog, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr)
		return fmt.Errorf("unable to establish connection with the server: %w", err)
	}
	fmt.Fprintf(os.Stderr, " %d found\n", len(families))

	h := pipeline.New(client, cfg.Harvest,
		pipeline.WithLogger(logger),
		pipeline.WithProgress(pipeline.NewBarProgress(os.Stderr, "Extracting seed data")),
	)
	result, err := h.Run(ctx, families)
	if err != nil {
		return err
	}

	if err := output.WriteCSVFile(path, result.Rows); err != nil {
		return err
	}
	logger.InfoContext(ctx, "wrote table", "path", path, "rows", len(result.Rows),
		"families", result.Total(), "empty", result.Empty, "skipped", result.Skipped)

	if cfg.Output.DBPath != "" {
		st, err := store.Open(cfg.Output.DBPath)
		if err != nil {
			return err
		}
		defer st.Close()
		runID, err := st.SaveRun(ctx, result.Rows)
		if err != nil {
			return err
		}
		logger.InfoContext(ctx, "exported table", "db", cfg.Output.DBPath, "run_id", runID)
	}

	if n, _ := cmd.Flags().GetInt("preview"); n > 0 {
		output.RenderPreview(os.Stdout, result.Rows, n)
	}
	return nil
}
