package dto

// CreateWalletRequest is the request body for wallet creation.
// A blank name is replaced with a generated one.
type CreateWalletRequest struct {
	Name string `json:"name" binding:"omitempty,max=100,wallet_name"`
}

// RenameWalletRequest is the request body for renaming a wallet.
// As on create, a blank name is replaced with a generated one.
type RenameWalletRequest struct {
	Name string `json:"name" binding:"omitempty,max=100,wallet_name"`
}

// ApplyTransactionRequest is the request body for applying a transaction.
// Type, amount and comment rules are enforced by the ledger, so a missing
// type or amount reaches it as the zero value.
type ApplyTransactionRequest struct {
	Wallet          string `json:"wallet" binding:"required"` // wallet slug
	TransactionType string `json:"transaction_type"`
	Amount          int64  `json:"amount"`
	Comment         string `json:"comment"`
}

// WalletResponse is the response body for a wallet.
type WalletResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Balance   int64  `json:"balance"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// TransactionResponse is the response body for a transaction.
type TransactionResponse struct {
	ID              string `json:"id"`
	WalletID        string `json:"wallet_id"`
	TransactionType string `json:"transaction_type"`
	Amount          int64  `json:"amount"`
	Comment         string `json:"comment"`
	CreatedAt       string `json:"created_at"`
}

// TransactionListResponse wraps paginated transaction list.
type TransactionListResponse struct {
	Items      []TransactionResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}
