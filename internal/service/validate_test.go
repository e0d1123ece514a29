package service_test

import (
	"testing"

	"moderation/internal/service"
	"moderation/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDomain(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"example.org", "example.org", true},
		{"Example.ORG", "example.org", true},
		{"example.org.", "example.org", true},
		{"  sub.example.org ", "sub.example.org", true},
		{"xn--bcher-kva.example", "xn--bcher-kva.example", true},
		{"", "", false},
		{"localhost", "", false},
		{"http://example.org", "", false},
		{"example.org/path", "", false},
		{"example.org:8080", "", false},
		{"-bad-.example", "", false},
		{"exa mple.org", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := service.NormalizeDomain(tc.in)
			if !tc.ok {
				require.ErrorIs(t, err, serrors.ErrInvalidDomain)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"/", "/", true},
		{"/pricing", "/pricing", true},
		{"/pricing/", "/pricing", true},
		{"/a//b/../c", "/a/c", true},
		{"", "", false},
		{"pricing", "", false},
		{"/pricing?plan=pro", "", false},
		{"/pricing#top", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := service.NormalizePath(tc.in)
			if !tc.ok {
				require.ErrorIs(t, err, serrors.ErrInvalidPath)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestValidateEmail(t *testing.T) {
	got, err := service.ValidateEmail("Alice@Example.ORG")
	require.NoError(t, err)
	require.Equal(t, "alice@example.org", got)

	for _, in := range []string{"", "not an email", "Alice <alice@example.org>", "alice@"} {
		_, err := service.ValidateEmail(in)
		require.ErrorIs(t, err, serrors.ErrInvalidEmail, "input %q", in)
	}
}
