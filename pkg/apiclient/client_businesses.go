package apiclient

import "context"

// ListBusinesses returns a page of business listings for a site.
func (c *Client) ListBusinesses(ctx context.Context, siteID string, opts ListOptions) (Paginated[Business], error) {
	var out Paginated[Business]
	if err := c.get(ctx, listPath("/sites/"+siteID+"/businesses", opts), &out); err != nil {
		return Paginated[Business]{}, err
	}
	return out, nil
}

// GetBusiness returns a single business listing by ID.
func (c *Client) GetBusiness(ctx context.Context, id string) (Business, error) {
	var out Business
	if err := c.get(ctx, "/businesses/"+id, &out); err != nil {
		return Business{}, err
	}
	return out, nil
}
