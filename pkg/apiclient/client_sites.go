package apiclient

import "context"

// ListSites returns a page of the organization's sites.
func (c *Client) ListSites(ctx context.Context, opts ListOptions) (Paginated[Site], error) {
	var out Paginated[Site]
	if err := c.get(ctx, listPath("/sites", opts), &out); err != nil {
		return Paginated[Site]{}, err
	}
	return out, nil
}

// GetSite returns a single site by ID.
func (c *Client) GetSite(ctx context.Context, id string) (Site, error) {
	var out Site
	if err := c.get(ctx, "/sites/"+id, &out); err != nil {
		return Site{}, err
	}
	return out, nil
}

// CreateSite registers a new site under the current organization.
func (c *Client) CreateSite(ctx context.Context, req CreateSiteRequest) (Site, error) {
	var out Site
	if err := c.post(ctx, "/sites", req, &out); err != nil {
		return Site{}, err
	}
	return out, nil
}

// UpdateSite applies a partial update to a site.
func (c *Client) UpdateSite(ctx context.Context, id string, req UpdateSiteRequest) (Site, error) {
	var out Site
	if err := c.patch(ctx, "/sites/"+id, req, &out); err != nil {
		return Site{}, err
	}
	return out, nil
}

// DeleteSite removes a site.
func (c *Client) DeleteSite(ctx context.Context, id string) error {
	return c.delete(ctx, "/sites/"+id)
}
