package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"accountd/internal/account/models"
)

func decodeCmd() *cobra.Command {
	var asYAML bool

	c := &cobra.Command{
		Use:   "decode [file]",
		Short: "Validate an account document (JSON or YAML) and print its normalized form",
		Long: "Reads the document from file, or stdin when no file is given. YAML is\n" +
			"selected by a .yaml/.yml extension or --yaml.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if len(args) == 1 {
				raw, err = os.ReadFile(args[0])
				asYAML = asYAML || hasYAMLExt(args[0])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}

			decode := models.DecodeJSON
			if asYAML {
				decode = models.DecodeYAML
			}
			acct, err := decode(raw)
			if err != nil {
				return err
			}

			out, err := models.EncodeJSON(acct)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", out)
			return nil
		},
	}

	c.Flags().BoolVar(&asYAML, "yaml", false, "Parse input as YAML")
	return c
}
