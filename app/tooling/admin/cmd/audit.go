package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridianchain/meridian/foundation/ledger/stake"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Reconcile the weight counters against the delegation records",
	RunE:  auditRun,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}

func auditRun(cmd *cobra.Command, args []string) error {
	db, close, err := openStore()
	if err != nil {
		return err
	}
	defer close()

	wa, err := stake.AuditWeights(db)
	if err != nil {
		return err
	}

	fmt.Printf("bandwidth weight: stored %d computed %d\n", wa.StoredBandwidth, wa.ComputedBandwidth)
	fmt.Printf("energy weight:    stored %d computed %d\n", wa.StoredEnergy, wa.ComputedEnergy)

	if !wa.Clean() {
		return fmt.Errorf("weight counters have drifted from the delegation records")
	}

	fmt.Println("counters clean")
	return nil
}
