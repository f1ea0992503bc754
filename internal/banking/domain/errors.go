package domain

import "errors"

var (
	ErrNotFound           = errors.New("not_found")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidAmount      = errors.New("invalid_amount")
	ErrMissingBankAccount = errors.New("missing_bank_account")
	ErrUnknownProvider    = errors.New("unknown_banking_provider")
	ErrNotCredit          = errors.New("transaction_not_credit")
	ErrNotDebit           = errors.New("transaction_not_debit")
	// ErrOverAssociated rejects a revenue or purchase that would push
	// the allocation sum past the transaction amount.
	ErrOverAssociated = errors.New("association_exceeds_transaction")
)
