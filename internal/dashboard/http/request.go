package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rankwise/dashboard/pkg/apiclient"
)

func jsonDecode(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// listOptions extracts the shared pagination/search parameters from a
// request's query string. Absent or malformed values are left zero and the
// upstream applies its own defaults.
func listOptions(r *http.Request) apiclient.ListOptions {
	q := r.URL.Query()
	opts := apiclient.ListOptions{Search: q.Get("search")}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		opts.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		opts.Limit = limit
	}
	return opts
}
