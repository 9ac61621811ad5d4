package apiclient

import "context"

// GetSubscription returns the organization's current billing plan.
func (c *Client) GetSubscription(ctx context.Context) (Subscription, error) {
	var out Subscription
	if err := c.get(ctx, "/billing/subscription", &out); err != nil {
		return Subscription{}, err
	}
	return out, nil
}

// ListInvoices returns a page of billing statements.
func (c *Client) ListInvoices(ctx context.Context, opts ListOptions) (Paginated[Invoice], error) {
	var out Paginated[Invoice]
	if err := c.get(ctx, listPath("/billing/invoices", opts), &out); err != nil {
		return Paginated[Invoice]{}, err
	}
	return out, nil
}
