package discovery

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

var (
	// hasScheme matches any explicit "<scheme>://" prefix.
	hasScheme = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*://`)
	// domainTLD matches a host ending in a dot and an alphabetic TLD.
	domainTLD = regexp.MustCompile(`\.[A-Za-z]{2,}$`)
)

// NormalizeURL canonicalizes a raw URL into the identity key used for
// deduplication and as the rendered URL in every output.
//
// Normalization rules:
// - Prefix "https://" when no scheme is present
// - Lowercase scheme and host, keep the scheme that was given
// - Drop userinfo, query and fragment
// - Empty or "/" path renders as exactly one "/"
// - Any other path loses its trailing slashes and is otherwise kept as written
//
// NormalizeURL does not validate. Unparseable input is returned trimmed and
// scheme-prefixed, so the function stays idempotent on its own output.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !hasScheme.MatchString(s) {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return s
	}

	path := strings.TrimRight(rawPath(s), "/")
	if path == "" {
		path = "/"
	}

	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + path
}

// rawPath returns the path of s exactly as written, without re-encoding it.
// s must carry a "<scheme>://" prefix.
func rawPath(s string) string {
	rest := s[strings.Index(s, "://")+3:]
	i := strings.IndexAny(rest, "/?#")
	if i < 0 || rest[i] != '/' {
		return ""
	}
	rest = rest[i:]
	if j := strings.IndexAny(rest, "?#"); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

// IsValidHTTPURL reports whether raw is an http(s) URL with a usable host.
// The host must be free of whitespace and look like a domain: at least one dot
// and an alphabetic TLD. Malformed input yields false.
func IsValidHTTPURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if strings.IndexFunc(u.Host, unicode.IsSpace) >= 0 {
		return false
	}
	return domainTLD.MatchString(u.Hostname())
}

// ResolveLink resolves a raw href against a base page URL.
// Returns the absolute URL and true if it is http(s), or "", false otherwise.
//
// - Lowercase hostname
// - Strip fragment
// - Strip default port (80 for http, 443 for https)
// - Empty path becomes "/"
func ResolveLink(href string, base *url.URL) (string, bool) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", false
	}

	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}

	abs.Host = strings.ToLower(abs.Host)
	if abs.Scheme == "http" {
		abs.Host = strings.TrimSuffix(abs.Host, ":80")
	}
	if abs.Scheme == "https" {
		abs.Host = strings.TrimSuffix(abs.Host, ":443")
	}
	if abs.Path == "" {
		abs.Path = "/"
	}
	abs.Fragment = ""

	return abs.String(), true
}

// Hostname returns the lowercased hostname of raw without port, or "" if raw
// cannot be parsed.
func Hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// HostMatchesAny reports whether host contains any of the given fragments.
func HostMatchesAny(host string, fragments []string) bool {
	for _, f := range fragments {
		if f != "" && strings.Contains(host, f) {
			return true
		}
	}
	return false
}
