package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		uri  string
		want string
	}{
		{"https://www.youtube.com/watch?v=BH_vwsyCrTc", "BH_vwsyCrTc"},
		{"https://www.youtube.com/watch?v=BH_vwsyCrTc&feature=featured", "BH_vwsyCrTc"},
		{"http://www.youtube.com/watch#!v=ylLzyHk54Z0", "ylLzyHk54Z0"},
		{"http://www.youtube.com/watch#!foo=bar!v=ylLzyHk54Z0", "ylLzyHk54Z0"},
		{"https://example.com/watch?v=BH_vwsyCrTc", ""}, // not a youtube host
		{"https://www.youtube.com/watch", ""},
		{"", ""},
		{"://not a uri", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractVideoID(tc.uri), "uri %q", tc.uri)
	}
}

func TestExtractVideoIDRoundTrip(t *testing.T) {
	v := NewVideo("dQw4w9WgXcQ")
	assert.Equal(t, "dQw4w9WgXcQ", ExtractVideoID(v.PlayerURI()))
}
