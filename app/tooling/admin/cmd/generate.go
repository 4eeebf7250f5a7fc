package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/meridianchain/meridian/foundation/ledger/database"
)

var generateCmd = &cobra.Command{
	Use:   "generate [name]",
	Short: "Generate a new account key pair",
	Args:  cobra.ExactArgs(1),
	RunE:  generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) error {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return err
	}

	name := args[0]
	if !strings.HasSuffix(name, keyExtension) {
		name += keyExtension
	}
	path := filepath.Join(accountPath, name)

	if err := crypto.SaveECDSA(path, privateKey); err != nil {
		return err
	}

	accountID := database.PublicKeyToAccountID(privateKey.PublicKey)
	fmt.Printf("wrote %s\naccount %s\n", path, accountID)

	return nil
}
