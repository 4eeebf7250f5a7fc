// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Witness represents a founding block producer candidate declared in the
// genesis file.
type Witness struct {
	URL string `json:"url"`
}

// Genesis represents the genesis file.
type Genesis struct {
	Date                  time.Time          `json:"date"`
	ChainID               uint16             `json:"chain_id"`                // The chain id represents an unique id for this running instance.
	MinFreezeDays         uint64             `json:"min_freeze_days"`         // Minimum number of days balance can be frozen for.
	MaxFreezeDays         uint64             `json:"max_freeze_days"`         // Maximum number of days balance can be frozen for.
	AllowDelegateResource bool               `json:"allow_delegate_resource"` // Whether resources can be delegated to other accounts.
	AllowConstantinople   bool               `json:"allow_constantinople"`    // Post-upgrade rules: no delegation to contract accounts.
	Balances              map[string]uint64  `json:"balances"`
	Witnesses             map[string]Witness `json:"witnesses"`
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("unmarshal genesis file: %w", err)
	}

	return genesis, nil
}
