package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridianchain/meridian/foundation/ledger/database"
)

var delegationsCmd = &cobra.Command{
	Use:   "delegations",
	Short: "Print every outstanding delegation record",
	RunE:  delegationsRun,
}

func init() {
	rootCmd.AddCommand(delegationsCmd)
}

func delegationsRun(cmd *cobra.Command, args []string) error {
	db, close, err := openStore()
	if err != nil {
		return err
	}
	defer close()

	fmt.Printf("%-44s %-44s %12s %15s %12s %15s\n",
		"FROM", "TO", "BANDWIDTH", "BANDW EXPIRE", "ENERGY", "ENERGY EXPIRE")

	return db.ForEachDelegation(func(rd database.ResourceDelegation) error {
		fmt.Printf("%-44s %-44s %12d %15d %12d %15d\n",
			rd.From, rd.To, rd.BandwidthAmount, rd.BandwidthExpiration,
			rd.EnergyAmount, rd.EnergyExpiration)
		return nil
	})
}
