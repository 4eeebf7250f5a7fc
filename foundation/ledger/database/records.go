package database

// ResourceDelegation represents stake locked by the From account whose
// resource generation is granted to the To account. When From equals To the
// record represents a self-freeze. A pair holds at most one outstanding
// freeze per resource type; re-freezing adds to the amount and overwrites
// the expiration with the new window.
type ResourceDelegation struct {
	From                AccountID
	To                  AccountID
	BandwidthAmount     uint64
	BandwidthExpiration uint64 // Milliseconds since epoch, block time.
	EnergyAmount        uint64
	EnergyExpiration    uint64
}

// IsZero reports whether both resource amounts have been unfrozen.
func (rd ResourceDelegation) IsZero() bool {
	return rd.BandwidthAmount == 0 && rd.EnergyAmount == 0
}

// =============================================================================

// DelegationIndex is the set of accounts a delegator has live delegation
// records toward. It exists only to enumerate outgoing delegations and is
// deleted entirely once empty.
type DelegationIndex struct {
	From AccountID
	To   []AccountID
}

// Contains reports whether the account is already indexed.
func (di DelegationIndex) Contains(to AccountID) bool {
	for _, id := range di.To {
		if id == to {
			return true
		}
	}
	return false
}

// =============================================================================

// Vote represents a single vote cast for a witness candidate.
type Vote struct {
	Witness AccountID
	Count   uint64
}

// Votes represents the full set of votes cast by one account using its
// self-frozen stake as voting power.
type Votes struct {
	Owner AccountID
	Votes []Vote
}

// =============================================================================

// Witness represents a block producer candidate and its received vote tally.
type Witness struct {
	Address   AccountID
	VoteCount uint64
	URL       string
}
