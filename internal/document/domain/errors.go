package domain

import "errors"

var (
	ErrNotFound          = errors.New("not_found")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrNotDraft          = errors.New("document_not_draft")
	ErrNotLocked         = errors.New("document_not_locked")
	ErrEmptyDocument     = errors.New("empty_document")
	ErrInvalidTransition = errors.New("invalid_transition")
	ErrMissingCustomer   = errors.New("missing_customer")
	ErrOrphanItem        = errors.New("item_has_no_parent")
)
