package ports

import "context"

// WalletUpdate represents a single trophy-balance change for a user.
type WalletUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// EconomyPort defines the interface for the trophy wallet.
type EconomyPort interface {
	// GetBalance retrieves the current trophy balance for a user.
	GetBalance(ctx context.Context, userID string) (int64, error)

	// UpdateBalances applies multiple wallet changes atomically. Used at the
	// end of a game to credit the winning team's haul.
	UpdateBalances(ctx context.Context, updates []WalletUpdate) error
}
