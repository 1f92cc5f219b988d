package service

import (
	"errors"
	"fmt"

	"fintrack/pkg/money"
)

var (
	ErrWalletNotFound  = errors.New("wallet not found")
	ErrWalletArchived  = errors.New("wallet is archived")
	ErrNoDefaultWallet = errors.New("walletId is required when no default wallet is set")
	ErrSameWallet      = errors.New("source and destination wallets must differ")
	ErrTransferLeg     = errors.New("record belongs to a transfer; delete the transfer instead")
)

// ValidationError rejects a request before or during a mutation. Err, when
// set, is the underlying cause.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

func tooLarge(field string) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf("must be at most %d", money.MaxAmount), Err: money.ErrOverflow}
}
