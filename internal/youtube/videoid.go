package youtube

import (
	"net/url"
	"strings"
)

// ExtractVideoID extracts a video ID from a YouTube player URI, in the form
// produced by Video.PlayerURI. The host must contain "youtube"; the ID is
// taken from the v query parameter, or from a v= token in the !-separated
// fragment that older player pages used. Returns "" if no ID is found.
func ExtractVideoID(playerURI string) string {
	if playerURI == "" {
		return ""
	}

	u, err := url.Parse(playerURI)
	if err != nil {
		return ""
	}
	if !strings.Contains(u.Hostname(), "youtube") {
		return ""
	}

	if id := u.Query().Get("v"); id != "" {
		return id
	}

	// e.g. http://www.youtube.com/watch#!v=ylLzyHk54Z0
	for _, component := range strings.Split(u.Fragment, "!") {
		if strings.HasPrefix(component, "v=") {
			return component[len("v="):]
		}
	}

	return ""
}
