package notify

import "context"

// ApprovalHint tells a client it should chain an approval transaction before
// the one being announced.
type ApprovalHint struct {
	Token          string `json:"token"`
	Spender        string `json:"spender"`
	SpenderName    string `json:"spender_name"`
	RequiredAmount string `json:"required_amount"`
}

// TransactionNotice is the payload pushed to a connected client when a
// prepared transaction is ready for signing, or when its status changes.
type TransactionNotice struct {
	RecordID      string            `json:"record_id"`
	OperationType string            `json:"operation_type"`
	Status        string            `json:"status"`
	ChainID       int64             `json:"chain_id"`
	To            string            `json:"to"`
	Value         string            `json:"value"`
	Data          string            `json:"data"`
	ButtonText    string            `json:"button_text"`
	Details       map[string]string `json:"details,omitempty"`
	ExplorerURL   string            `json:"explorer_url,omitempty"`
	Approval      *ApprovalHint     `json:"approval,omitempty"`
}

// Publisher delivers notices to a user's connected clients. Implementations
// key subscriptions by normalized user address and, separately, by chat ID.
type Publisher interface {
	Publish(ctx context.Context, userAddress, chatID string, notice TransactionNotice) error
}
