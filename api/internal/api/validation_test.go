package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTarget(t *testing.T) {
	testCases := []struct {
		name        string
		input       string
		expected    string
		expectedErr error
		description string
	}{
		{
			name:        "SchemeAdded",
			input:       "  example.com/blog  ",
			expected:    "https://example.com/blog",
			description: "Input is trimmed and https is assumed",
		},
		{
			name:        "HostLowercased",
			input:       "HTTP://Example.COM:8080/Path",
			expected:    "http://example.com:8080/Path",
			description: "Scheme and host are lowercased, the path is kept",
		},
		{
			name:        "FragmentDropped",
			input:       "https://example.com/page?q=1#section",
			expected:    "https://example.com/page?q=1",
			description: "The fragment does not change the fetched page",
		},
		{
			name:        "PublicIP",
			input:       "https://93.184.216.34",
			expected:    "https://93.184.216.34",
			description: "Public addresses are accepted",
		},
		{
			name:        "Empty",
			input:       " ",
			expectedErr: errTargetRequired,
			description: "Blank input is rejected",
		},
		{
			name:        "TooLong",
			input:       "https://example.com/" + strings.Repeat("a", maxTargetLength),
			expectedErr: errTargetTooLong,
			description: "Overlong URLs are rejected",
		},
		{
			name:        "NoHost",
			input:       "https://",
			expectedErr: errTargetHost,
			description: "A URL without host is rejected",
		},
		{
			name:        "BadHostname",
			input:       "https://exa_mple.com",
			expectedErr: errTargetHost,
			description: "Hostnames must be valid DNS labels",
		},
		{
			name:        "LocalhostSubdomain",
			input:       "http://api.localhost",
			expectedErr: errTargetUnreachable,
			description: "Names under localhost are loopback",
		},
		{
			name:        "LoopbackIPv6",
			input:       "http://[::1]:8080",
			expectedErr: errTargetUnreachable,
			description: "IPv6 loopback is rejected",
		},
		{
			name:        "MappedPrivateIPv4",
			input:       "http://[::ffff:10.0.0.1]",
			expectedErr: errTargetUnreachable,
			description: "IPv4-mapped private addresses are rejected",
		},
		{
			name:        "LinkLocal",
			input:       "http://169.254.169.254/latest",
			expectedErr: errTargetUnreachable,
			description: "Link-local metadata addresses are rejected",
		},
		{
			name:        "DotSegments",
			input:       "https://example.com/a/../b",
			expectedErr: errTargetPath,
			description: "Dot segments are rejected",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := validateTarget(tc.input)
			if tc.expectedErr != nil {
				require.Error(t, err, tc.description)
				assert.ErrorIs(t, err, tc.expectedErr, tc.description)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err, tc.description)
			assert.Equal(t, tc.expected, got, tc.description)
		})
	}

	t.Run("UnsupportedScheme", func(t *testing.T) {
		_, err := validateTarget("ftp://example.com")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `cannot analyze "ftp" pages`)
	})
}
