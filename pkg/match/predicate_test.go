package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/netsense/pkg/mac"
	"github.com/macropower/netsense/pkg/match"
)

func ptr[T any](v T) *T {
	return &v
}

func TestMembership(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		value    *string
		observed string
		want     match.TriState
	}{
		"absent": {
			value:    nil,
			observed: "192.168.1.5",
			want:     match.NoOpinion,
		},
		"absent ignores malformed observed value": {
			value:    nil,
			observed: "garbage",
			want:     match.NoOpinion,
		},
		"inside CIDR": {
			value:    ptr("192.168.1.0/24"),
			observed: "192.168.1.5",
			want:     match.Match,
		},
		"outside CIDR": {
			value:    ptr("203.0.113.0/24"),
			observed: "198.51.100.9",
			want:     match.NoMatch,
		},
		"CIDR with host bits set": {
			value:    ptr("192.168.1.77/24"),
			observed: "192.168.1.200",
			want:     match.Match,
		},
		"bare address equal": {
			value:    ptr("10.0.0.1"),
			observed: "10.0.0.1",
			want:     match.Match,
		},
		"bare address is a /32": {
			value:    ptr("10.0.0.1"),
			observed: "10.0.0.2",
			want:     match.NoMatch,
		},
		"surrounding whitespace": {
			value:    ptr("  10.0.0.0/8 "),
			observed: " 10.20.30.40",
			want:     match.Match,
		},
		"catch-all network": {
			value:    ptr("0.0.0.0/0"),
			observed: "8.8.8.8",
			want:     match.Match,
		},
		"IPv6 inside": {
			value:    ptr("2001:db8::/32"),
			observed: "2001:db8::1",
			want:     match.Match,
		},
		"IPv6 bare address": {
			value:    ptr("2001:db8::1"),
			observed: "2001:db8::2",
			want:     match.NoMatch,
		},
		"IPv4 observed against IPv6 network": {
			value:    ptr("2001:db8::/32"),
			observed: "192.0.2.1",
			want:     match.NoMatch,
		},
		"IPv6 observed against IPv4 network": {
			value:    ptr("192.0.2.0/24"),
			observed: "2001:db8::1",
			want:     match.NoMatch,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := match.Membership("gateway_ip_address", tc.value, tc.observed)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMembership_FormatErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		value        string
		observed     string
		wantObserved bool
	}{
		"not an IP": {
			value:    "not-an-ip",
			observed: "192.168.1.5",
		},
		"bad prefix length": {
			value:    "192.168.1.0/33",
			observed: "192.168.1.5",
		},
		"bad CIDR address": {
			value:    "192.168.1/24",
			observed: "192.168.1.5",
		},
		"empty value": {
			value:    "",
			observed: "192.168.1.5",
		},
		"malformed observed": {
			value:        "192.168.1.0/24",
			observed:     "not-an-ip",
			wantObserved: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := match.Membership("external_ip_address", &tc.value, tc.observed)
			require.Error(t, err)
			require.ErrorIs(t, err, match.ErrFormat)
			assert.Equal(t, match.NoOpinion, got)

			var fe *match.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "external_ip_address", fe.Key)
			assert.Equal(t, tc.wantObserved, fe.Observed)
			assert.Contains(t, err.Error(), "external_ip_address")
		})
	}
}

func TestEquality(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		value    *string
		observed string
		want     match.TriState
	}{
		"absent": {
			value:    nil,
			observed: "aa:bb:cc:dd:ee:ff",
			want:     match.NoOpinion,
		},
		"case insensitive": {
			value:    ptr("AA:BB:CC:DD:EE:FF"),
			observed: "aa:bb:cc:dd:ee:ff",
			want:     match.Match,
		},
		"padding insensitive": {
			value:    ptr("0:1b:2c:3d:4e:5f"),
			observed: "00:1B:2C:3D:4E:5F",
			want:     match.Match,
		},
		"different": {
			value:    ptr("aa:bb:cc:dd:ee:ff"),
			observed: "aa:bb:cc:dd:ee:00",
			want:     match.NoMatch,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := match.Equality("gateway_mac_address", tc.value, tc.observed)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEquality_FormatErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		value        string
		observed     string
		wantObserved bool
	}{
		"configured not hex": {
			value:    "zz:bb:cc:dd:ee:ff",
			observed: "aa:bb:cc:dd:ee:ff",
		},
		"configured not delimited": {
			value:    "aabbccddeeff",
			observed: "aa:bb:cc:dd:ee:ff",
		},
		"observed malformed": {
			value:        "aa:bb:cc:dd:ee:ff",
			observed:     "",
			wantObserved: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := match.Equality("gateway_mac_address", &tc.value, tc.observed)
			require.ErrorIs(t, err, match.ErrFormat)
			require.ErrorIs(t, err, mac.ErrInvalidAddress)

			var fe *match.FormatError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tc.wantObserved, fe.Observed)
		})
	}
}

func TestParseNetwork(t *testing.T) {
	t.Parallel()

	n, err := match.ParseNetwork("192.168.1.9/24")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.0/24", n.String())

	n, err = match.ParseNetwork("10.1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "10.1.2.3/32", n.String())

	n, err = match.ParseNetwork("2001:db8::1")
	require.NoError(t, err)
	assert.Equal(t, "2001:db8::1/128", n.String())

	_, err = match.ParseNetwork("example.com")
	require.Error(t, err)
}
