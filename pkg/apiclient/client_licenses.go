package apiclient

import "context"

// ListLicenses returns a page of the organization's plugin licenses.
func (c *Client) ListLicenses(ctx context.Context, opts ListOptions) (Paginated[License], error) {
	var out Paginated[License]
	if err := c.get(ctx, listPath("/licenses", opts), &out); err != nil {
		return Paginated[License]{}, err
	}
	return out, nil
}

// CreateLicense issues a new license key for a plugin.
func (c *Client) CreateLicense(ctx context.Context, req CreateLicenseRequest) (License, error) {
	var out License
	if err := c.post(ctx, "/licenses", req, &out); err != nil {
		return License{}, err
	}
	return out, nil
}
