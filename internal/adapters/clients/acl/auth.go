package acl

import "net/http"

// TokenAuth returns a clients.Config AuthFunc that adds the provider API
// token as the "token" query parameter. It returns nil for an empty token so
// requests go out unauthenticated.
func TokenAuth(token string) func(*http.Request) {
	if token == "" {
		return nil
	}

	return func(r *http.Request) {
		q := r.URL.Query()
		q.Set("token", token)
		r.URL.RawQuery = q.Encode()
	}
}
