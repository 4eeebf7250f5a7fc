package database

import (
	"crypto/ecdsa"
	"errors"

	"github.com/ethereum/go-ethereum/crypto"
)

// Set of account types. Contract accounts are created by the virtual
// machine and cannot receive delegated resources after the Constantinople
// upgrade.
const (
	AccountTypeNormal   uint8 = 0
	AccountTypeContract uint8 = 1
)

// Account represents the information stored for an individual account.
// Balances and frozen amounts are in the smallest currency unit.
type Account struct {
	AccountID          AccountID
	Balance            uint64
	FrozenBandwidth    uint64 // Self-frozen stake generating bandwidth.
	FrozenEnergy       uint64 // Self-frozen stake generating energy.
	DelegatedBandwidth uint64 // Stake received from others for bandwidth.
	DelegatedEnergy    uint64 // Stake received from others for energy.
	DelegatedOutAmount uint64 // Stake this account sent out to others.
	Type               uint8
}

// NewAccount constructs an account value for use.
func NewAccount(accountID AccountID, balance uint64) Account {
	return Account{
		AccountID: accountID,
		Balance:   balance,
	}
}

// =============================================================================

// AccountID represents an account id that is used to sign transactions and is
// associated with transactions on the ledger.
type AccountID string

// ToAccountID converts a hex-encoded string to an account and validates the
// hex-encoded string is formatted correctly.
func ToAccountID(hex string) (AccountID, error) {
	a := AccountID(hex)
	if !a.IsAccountID() {
		return "", errors.New("invalid account format")
	}

	return a, nil
}

// PublicKeyToAccountID converts the public key to an account value.
func PublicKeyToAccountID(pk ecdsa.PublicKey) AccountID {
	return AccountID(crypto.PubkeyToAddress(pk).String())
}

// IsAccountID verifies whether the underlying data represents a valid
// hex-encoded account.
func (a AccountID) IsAccountID() bool {
	const addressLength = 20

	if has0xPrefix(a) {
		a = a[2:]
	}

	return len(a) == 2*addressLength && isHex(a)
}

// =============================================================================

// has0xPrefix validates the account starts with a 0x.
func has0xPrefix(a AccountID) bool {
	return len(a) >= 2 && a[0] == '0' && (a[1] == 'x' || a[1] == 'X')
}

// isHex validates whether each byte is a valid hexadecimal string.
func isHex(a AccountID) bool {
	if len(a)%2 != 0 {
		return false
	}

	for _, c := range []byte(a) {
		if !isHexCharacter(c) {
			return false
		}
	}

	return true
}

// isHexCharacter returns bool of c being a valid hexadecimal.
func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
