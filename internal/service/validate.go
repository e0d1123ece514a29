package service

import (
	"net/mail"
	"path"
	"regexp"
	"strings"

	"moderation/pkg/serrors"
)

// domainLabel matches one label of a registrable domain name.
var domainLabel = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// NormalizeDomain returns a canonical representation of a website domain.
//
// The normalization rules are intentionally strict to help with
// de-duplication across registrations:
//   - Lower-case the whole name
//   - Strip a single trailing dot
//   - Reject schemes, ports, paths and userinfo; a domain is a bare host
//   - Require at least two labels, each valid per RFC 1035 shape
//
// If the input does not qualify as a registrable domain, an error of kind
// ErrInvalidDomain is returned.
func NormalizeDomain(raw string) (string, error) {
	d := strings.ToLower(strings.TrimSpace(raw))
	d = strings.TrimSuffix(d, ".")
	if d == "" {
		return "", serrors.With(serrors.ErrInvalidDomain, "domain is empty")
	}
	if strings.ContainsAny(d, "/:@?#") {
		return "", serrors.With(serrors.ErrInvalidDomain, "domain must be a bare host, got %q", raw)
	}
	labels := strings.Split(d, ".")
	if len(labels) < 2 {
		return "", serrors.With(serrors.ErrInvalidDomain, "domain %q has no top-level label", raw)
	}
	for _, label := range labels {
		if !domainLabel.MatchString(label) {
			return "", serrors.With(serrors.ErrInvalidDomain, "invalid domain label %q", label)
		}
	}

	return d, nil
}

// NormalizePath returns a canonical representation of a webpage path.
//
//   - Require a leading slash; a path is always absolute
//   - Clean the path (resolve dot-segments, collapse duplicate slashes)
//   - Remove a trailing slash (except for the root path "/")
//   - Reject query strings and fragments; they are not part of page identity
//
// If the input does not qualify, an error of kind ErrInvalidPath is returned.
func NormalizePath(raw string) (string, error) {
	p := strings.TrimSpace(raw)
	if p == "" || !strings.HasPrefix(p, "/") {
		return "", serrors.With(serrors.ErrInvalidPath, "path must start with a slash, got %q", raw)
	}
	if strings.ContainsAny(p, "?#") {
		return "", serrors.With(serrors.ErrInvalidPath, "path may not carry a query or fragment, got %q", raw)
	}
	p = path.Clean(p)
	if p != "/" && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}

	return p, nil
}

// ValidateEmail checks that raw is a plain addr-spec email address. Display
// names are rejected; the address is the login identity, not a header.
func ValidateEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrInvalidEmail, err, "invalid email %q", raw)
	}
	if addr.Name != "" || addr.Address != raw {
		return "", serrors.With(serrors.ErrInvalidEmail, "email must be a bare address, got %q", raw)
	}

	return strings.ToLower(addr.Address), nil
}
