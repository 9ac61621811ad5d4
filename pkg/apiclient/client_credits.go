package apiclient

import "context"

// GetCreditsBalance returns the organization's current credit position.
func (c *Client) GetCreditsBalance(ctx context.Context) (CreditsBalance, error) {
	var out CreditsBalance
	if err := c.get(ctx, "/credits/balance", &out); err != nil {
		return CreditsBalance{}, err
	}
	return out, nil
}

// ListCreditTransactions returns a page of the credit ledger.
func (c *Client) ListCreditTransactions(ctx context.Context, opts ListOptions) (Paginated[CreditTransaction], error) {
	var out Paginated[CreditTransaction]
	if err := c.get(ctx, listPath("/credits/transactions", opts), &out); err != nil {
		return Paginated[CreditTransaction]{}, err
	}
	return out, nil
}
