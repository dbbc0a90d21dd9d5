package models

import "time"

type TransactionStatus string

type OperationType string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

const (
	OperationTransfer OperationType = "transfer"
	OperationApprove  OperationType = "approve"
	OperationSwap     OperationType = "swap"
)

// PendingTransaction is a prepared, not-yet-broadcast transaction awaiting
// client-side signing. Rows are created exactly once per successful
// preparation and never deleted; the external confirmation path flips the
// status and records the hash.
type PendingTransaction struct {
	ID            string            `gorm:"primaryKey" json:"id"`
	ChatID        string            `gorm:"index;not null" json:"chat_id"`
	UserID        string            `gorm:"index;not null" json:"user_id"`
	OperationType OperationType     `gorm:"not null" json:"operation_type"`
	Status        TransactionStatus `gorm:"default:pending" json:"status"`
	ChainID       int64             `gorm:"not null" json:"chain_id"`

	// To, Value and Data form the payload the wallet signs. Value is the
	// hex-encoded native amount, Data the hex-encoded call payload.
	To    string `gorm:"not null" json:"to"`
	Value string `gorm:"not null" json:"value"`
	Data  string `gorm:"type:text" json:"data"`

	// ButtonText is the human label shown on the signing prompt.
	ButtonText string `gorm:"not null" json:"button_text"`
	// Details carries operation-specific display metadata, opaque to this
	// layer.
	Details map[string]string `gorm:"serializer:json" json:"details"`

	TransactionHash *string   `json:"transaction_hash,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
