package public

import "github.com/meridianchain/meridian/foundation/ledger/database"

type info struct {
	Account            database.AccountID `json:"account"`
	Name               string             `json:"name"`
	Balance            uint64             `json:"balance"`
	FrozenBandwidth    uint64             `json:"frozen_bandwidth"`
	FrozenEnergy       uint64             `json:"frozen_energy"`
	DelegatedBandwidth uint64             `json:"delegated_bandwidth"`
	DelegatedEnergy    uint64             `json:"delegated_energy"`
	DelegatedOut       uint64             `json:"delegated_out"`
}

type actInfo struct {
	BlockTime uint64 `json:"block_time"`
	Accounts  []info `json:"accounts"`
}

type delegation struct {
	From                database.AccountID `json:"from"`
	FromName            string             `json:"from_name"`
	To                  database.AccountID `json:"to"`
	ToName              string             `json:"to_name"`
	BandwidthAmount     uint64             `json:"bandwidth_amount"`
	BandwidthExpiration uint64             `json:"bandwidth_expiration"`
	EnergyAmount        uint64             `json:"energy_amount"`
	EnergyExpiration    uint64             `json:"energy_expiration"`
}

type freezeRequest struct {
	Owner        string `json:"owner" validate:"required"`
	Amount       uint64 `json:"amount" validate:"required"`
	DurationDays uint64 `json:"duration_days" validate:"required"`
	Resource     string `json:"resource" validate:"required"`
	Receiver     string `json:"receiver"`
}

type unfreezeRequest struct {
	Owner    string `json:"owner" validate:"required"`
	Resource string `json:"resource" validate:"required"`
	Receiver string `json:"receiver"`
}

type receipt struct {
	Status         string `json:"status"`
	UnfrozenAmount uint64 `json:"unfrozen_amount,omitempty"`
}
