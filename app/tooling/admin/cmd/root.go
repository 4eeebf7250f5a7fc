// Package cmd contains the admin tooling for inspecting a ledger database.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/meridianchain/meridian/foundation/ledger/database"
	"github.com/meridianchain/meridian/foundation/ledger/storage/leveldb"
)

var (
	dbPath      string
	accountPath string
)

const keyExtension = ".ecdsa"

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db-path", "d", "zblock/ledger.db", "Path to the ledger database.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with private keys.")
}

var rootCmd = &cobra.Command{
	Use:   "admin",
	Short: "Inspect and administer the staking ledger",
}

// Execute runs the selected command against the ledger.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStore opens the ledger database read/write. The caller owns the close.
func openStore() (*database.Store, func() error, error) {
	kv, err := leveldb.New(dbPath)
	if err != nil {
		return nil, nil, err
	}

	return database.NewStore(kv), kv.Close, nil
}
