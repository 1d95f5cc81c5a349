package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"accountd/internal/account/arbitrary"
	"accountd/internal/account/models"
)

func sampleCmd() *cobra.Command {
	var (
		n          int
		smallNames bool
		format     string
		seed       uint64
	)

	c := &cobra.Command{
		Use:   "sample",
		Short: "Print random valid account documents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if n < 0 {
				return fmt.Errorf("--n must not be negative")
			}
			var opts []arbitrary.Option
			if smallNames {
				opts = append(opts, arbitrary.WithName(arbitrary.SmallName()))
			}
			if cmd.Flags().Changed("seed") {
				opts = append(opts, arbitrary.WithSeed(seed))
			}

			docs := make([]map[string]any, 0, n)
			for _, acct := range arbitrary.New(opts...).Sample(n) {
				docs = append(docs, models.Encode(acct))
			}

			w := cmd.OutOrStdout()
			switch format {
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(docs)
			case "yaml":
				enc := yaml.NewEncoder(w)
				defer enc.Close()
				return enc.Encode(docs)
			default:
				return fmt.Errorf("unknown --format %q (want json or yaml)", format)
			}
		},
	}

	c.Flags().IntVarP(&n, "n", "n", 5, "Number of accounts")
	c.Flags().BoolVar(&smallNames, "small-names", false, "Use three-letter names")
	c.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	c.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible sample")
	return c
}
