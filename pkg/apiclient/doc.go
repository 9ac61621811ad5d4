/*
Package apiclient provides the request gateway for the RankWise dashboard API.

# Overview

Every call to the upstream API goes through a Client, which injects the
stored bearer credential, recovers transparently from credential expiry, and
maps upstream failures to a small set of typed errors.

# Request Pipeline

A Client sends each request through a fixed stage pipeline, outermost first:

  - refresh-and-retry: on a 401, runs the single-flight credential refresh and
    replays the request once with the new credential
  - circuit breaker (optional): trips on sustained upstream 5xx responses
  - bearer auth: sets the Authorization header from the credential store,
    unless a stage above already set one
  - transport: the underlying HTTP round trip, with timeouts mapped to
    ErrTimeout

Construct a Client with a credential store and the API origin:

	client := apiclient.New(apiclient.Config{
		BaseURL:     "https://api.example.com",
		Credentials: creds,
		Session:     sess,
	})

	sites, err := client.ListSites(ctx, apiclient.ListOptions{Page: 1, Limit: 20})

# Credential Refresh

When a request comes back 401, the client exchanges the stored refresh token
for a new pair at POST /auth/refresh. Concurrent 401s share a single refresh:
exactly one exchange runs, and every waiting request is replayed with its
result. The exchange itself runs detached from the triggering request's
context, so an abandoned request never cancels a refresh other requests are
waiting on.

If the refresh fails, stored credentials and session state are torn down and
callers receive an error wrapping ErrSessionExpired. The original 401 body is
never surfaced.

# Errors

Failures come back as typed values:

	// Credential expiry that could not be recovered
	errors.Is(err, apiclient.ErrSessionExpired)

	// Upstream throttling, with the server's requested delay
	var rle *apiclient.RateLimitError
	if errors.As(err, &rle) { wait(rle.RetryAfter) }

	// Any other non-2xx, with the server's message and code when parseable
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) { show(apiErr.Message) }
*/
package apiclient
