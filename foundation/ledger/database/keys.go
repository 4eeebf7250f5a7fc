package database

// Every record type lives under its own single byte prefix. Account ids are
// fixed length hex strings so concatenated keys are unambiguous.
const (
	prefixAccount         byte = 0x01
	prefixDelegation      byte = 0x02
	prefixDelegationIndex byte = 0x03
	prefixVotes           byte = 0x04
	prefixWitness         byte = 0x05
	prefixProperty        byte = 0x06
	prefixParameter       byte = 0x07
	prefixRewardAllowance byte = 0x08
)

// Set of dynamic property names. Properties are counters maintained by the
// ledger itself. They are seeded at genesis and must exist afterwards.
const (
	PropChainID              = "chain-id"
	PropLatestBlockTime      = "latest-block-time"
	PropTotalBandwidthWeight = "total-bandwidth-weight"
	PropTotalEnergyWeight    = "total-energy-weight"
)

// Set of chain parameter names. Parameters are operator/governance
// controlled feature switches, stored as 0 or 1.
const (
	ParamAllowDelegateResource = "allow-delegate-resource"
	ParamAllowConstantinople   = "allow-constantinople"
)

// =============================================================================

func accountKey(id AccountID) []byte {
	return makeKey(prefixAccount, string(id))
}

func delegationKey(from AccountID, to AccountID) []byte {
	return makeKey(prefixDelegation, string(from)+string(to))
}

func delegationIndexKey(from AccountID) []byte {
	return makeKey(prefixDelegationIndex, string(from))
}

func votesKey(owner AccountID) []byte {
	return makeKey(prefixVotes, string(owner))
}

func witnessKey(address AccountID) []byte {
	return makeKey(prefixWitness, string(address))
}

func propertyKey(name string) []byte {
	return makeKey(prefixProperty, name)
}

func parameterKey(name string) []byte {
	return makeKey(prefixParameter, name)
}

func rewardAllowanceKey(owner AccountID) []byte {
	return makeKey(prefixRewardAllowance, string(owner))
}

func makeKey(prefix byte, rest string) []byte {
	key := make([]byte, 0, 1+len(rest))
	key = append(key, prefix)
	key = append(key, rest...)
	return key
}
