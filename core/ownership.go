package core

import "context"

// IOwnershipService position ownership registry. The facility mints on
// open and burns on close; authorization checks go through OwnerOf.
// The registry owns the id -> principal mapping, never this module.
type IOwnershipService interface {
	OwnerOf(ctx context.Context, loanID uint64) (string, error)
	Mint(ctx context.Context, owner string, loanID uint64) error
	Burn(ctx context.Context, loanID uint64) error
}
