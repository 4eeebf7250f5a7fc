package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridianchain/meridian/foundation/ledger/database"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Print every account with its balance and stake",
	RunE:  accountsRun,
}

func init() {
	rootCmd.AddCommand(accountsCmd)
}

func accountsRun(cmd *cobra.Command, args []string) error {
	db, close, err := openStore()
	if err != nil {
		return err
	}
	defer close()

	fmt.Printf("%-44s %12s %12s %12s %12s %12s %12s\n",
		"ACCOUNT", "BALANCE", "FRZ BANDW", "FRZ ENERGY", "DEL BANDW", "DEL ENERGY", "DEL OUT")

	return db.ForEachAccount(func(acct database.Account) error {
		fmt.Printf("%-44s %12d %12d %12d %12d %12d %12d\n",
			acct.AccountID, acct.Balance, acct.FrozenBandwidth, acct.FrozenEnergy,
			acct.DelegatedBandwidth, acct.DelegatedEnergy, acct.DelegatedOutAmount)
		return nil
	})
}
