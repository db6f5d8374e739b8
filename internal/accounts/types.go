package accounts

// Account is a top-level organizational unit owning devices and device groups.
type Account struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CreateAccountInput contains the input for creating an account.
type CreateAccountInput struct {
	Name string `json:"name"`
}

// UpdateAccountInput contains the input for updating an account.
type UpdateAccountInput struct {
	Name *string `json:"name,omitempty"`
}

func formatAccount(account *Account) map[string]any {
	return map[string]any{
		"object":     "account",
		"id":         account.ID,
		"name":       account.Name,
		"created_at": account.CreatedAt,
		"updated_at": account.UpdatedAt,
	}
}
