package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"accountd/internal/account/models"
	"accountd/pkg/domain"
)

func lifecycleCmd() *cobra.Command {
	var address string

	c := &cobra.Command{
		Use:   "lifecycle <name>",
		Short: "Print the Created, Verified and Deleted documents for a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := domain.None[domain.Address]()
			if cmd.Flags().Changed("address") {
				addr = domain.Some(domain.NewAddress(address))
			}

			created := models.NewCreatedAccount(domain.NewName(args[0]))
			verified := models.Verify(created, addr)
			deleted := models.Delete(verified)

			for _, acct := range []models.Account{created, verified, deleted} {
				out, err := models.EncodeJSON(acct)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", out)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&address, "address", "a", "", "Address to verify with (omit for none)")
	return c
}
