package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"storefront/internal/seed"
)

func newSeedCommand(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Load a YAML fixture into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fixture, err := seed.ReadFile(args[0])
			if err != nil {
				return err
			}
			docs, err := seed.Build(fixture, time.Now().UTC())
			if err != nil {
				return err
			}

			a, err := bootstrap(*envFile)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.ensureIndexes(cmd.Context()); err != nil {
				return err
			}

			counts, err := seed.Load(cmd.Context(), a.mongo.Database(), docs)
			if err != nil {
				return err
			}

			collections := make([]string, 0, len(counts))
			for name := range counts {
				collections = append(collections, name)
			}
			sort.Strings(collections)
			for _, name := range collections {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", name, counts[name])
				a.log.Info("seeded collection", "collection", name, "documents", counts[name])
			}
			return nil
		},
	}
}
