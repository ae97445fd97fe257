package signal

import (
	"net/http"
	"net/url"
	"strings"
)

// checkOrigin builds the websocket upgrade origin filter from the
// configured allowlist. An empty list or a "*" entry allows everything;
// a request without an Origin header (non-browser client) is allowed.
func checkOrigin(allowed []string) func(r *http.Request) bool {
	normalized := make([]string, 0, len(allowed))
	wildcard := len(allowed) == 0
	for _, o := range allowed {
		if o == "*" {
			wildcard = true
			continue
		}
		if n, ok := normalizeOrigin(o); ok {
			normalized = append(normalized, n)
		}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if wildcard {
			return true
		}
		n, ok := normalizeOrigin(origin)
		if !ok {
			return false
		}
		for _, a := range normalized {
			if a == n {
				return true
			}
		}
		return false
	}
}

// normalizeOrigin lowercases scheme and host and strips default ports so
// list entries and browser headers compare equal.
func normalizeOrigin(origin string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", false
	}
	host := strings.ToLower(u.Host)
	switch {
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	}
	return scheme + "://" + host, true
}
