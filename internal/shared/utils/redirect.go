package utils

import (
	"net/url"
	"strings"
)

// AddQueryArgs sets the given query parameters on target, replacing any
// existing values, and returns the re-encoded URL.
func AddQueryArgs(target string, args map[string]string) string {
	u, err := url.Parse(target)
	if err != nil {
		u = &url.URL{Path: "/"}
	}
	q := u.Query()
	for k, v := range args {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// LocalRedirectTarget reduces a user-supplied URL (form field or Referer)
// to a same-origin path with query, or fallback if it points elsewhere.
func LocalRedirectTarget(raw, host, fallback string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fallback
	}
	if u.Host != "" && !strings.EqualFold(u.Host, host) {
		return fallback
	}
	if u.Path == "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return fallback
	}

	local := url.URL{Path: u.Path, RawQuery: u.RawQuery}
	return local.String()
}
