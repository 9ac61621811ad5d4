package apiclient

import "context"

// Login exchanges credentials for the identity triple and the initial token
// pair. The caller persists the tokens and seeds session state; Login itself
// does not touch the credential store.
func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	var out AuthResponse
	if err := c.send(ctx, "POST", c.authURL("/auth/login"), req, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

// Me fetches the identity triple for the currently stored credential. Used at
// startup to hydrate session state from a persisted token pair.
func (c *Client) Me(ctx context.Context) (MeResponse, error) {
	var out MeResponse
	if err := c.send(ctx, "GET", c.authURL("/auth/me"), nil, &out); err != nil {
		return MeResponse{}, err
	}
	return out, nil
}
