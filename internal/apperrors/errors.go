package apperrors

import (
	"fmt"
	"math/big"
)

// ResolutionError indicates a user-supplied recipient, token or spender string
// could not be mapped to an on-chain address. Always recoverable by the caller.
type ResolutionError struct {
	Kind  string // "recipient", "token" or "spender"
	Input string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("could not resolve %s %q: use an address, a saved contact name, a token symbol or an ENS name", e.Kind, e.Input)
}

func NewResolutionError(kind, input string) *ResolutionError {
	return &ResolutionError{Kind: kind, Input: input}
}

// InsufficientBalanceError is returned by the preflight balance check. Amounts
// are in the asset's smallest unit.
type InsufficientBalanceError struct {
	Symbol   string
	Balance  *big.Int
	Required *big.Int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: have %s, need %s", e.Symbol, e.Balance, e.Required)
}

// InsufficientLiquidityError indicates quote aggregation produced zero viable
// quotes across all venues.
type InsufficientLiquidityError struct {
	TokenIn  string
	TokenOut string
}

func (e *InsufficientLiquidityError) Error() string {
	return fmt.Sprintf("no venue returned a quote for %s -> %s: try a smaller amount or a different pair", e.TokenIn, e.TokenOut)
}

// UnsupportedVenueOrChainError indicates the requested venue is not configured
// for the target chain.
type UnsupportedVenueOrChainError struct {
	Venue   string
	ChainID int64
}

func (e *UnsupportedVenueOrChainError) Error() string {
	return fmt.Sprintf("venue %q is not available on chain %d", e.Venue, e.ChainID)
}

// BuildError wraps a call-data encoding failure. These are defects, not user
// errors; callers surface a generic message and log the cause.
type BuildError struct {
	Op  string
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("failed to build %s transaction: %v", e.Op, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// PersistenceError wraps a data-store write failure. Fatal to the request;
// nothing is published after one.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist transaction record: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NotificationError wraps a publish failure after a successful persistence.
// Logged only; the request still reports success since the pending record
// remains retrievable.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("failed to publish transaction notification: %v", e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }
