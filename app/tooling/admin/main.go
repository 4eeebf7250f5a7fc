// This program performs administrative tasks against a node's ledger database.
package main

import (
	"github.com/meridianchain/meridian/app/tooling/admin/cmd"
)

func main() {
	cmd.Execute()
}
