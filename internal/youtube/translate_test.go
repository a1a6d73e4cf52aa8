package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrivacyStatus(t *testing.T) {
	cases := []struct {
		name      string
		isPrivate bool
		listPerm  Permission
		listSet   bool
		want      string
	}{
		{"private dominates", true, PermissionAllowed, true, "private"},
		{"public when listed", false, PermissionAllowed, true, "public"},
		{"public when list unset", false, PermissionDenied, false, "public"},
		{"unlisted when list denied", false, PermissionDenied, true, "unlisted"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := privacyStatus(tc.isPrivate, tc.listPerm, tc.listSet)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestApplyPrivacyStatus(t *testing.T) {
	v := NewVideo("x")

	applyPrivacyStatus(v, "private")
	assert.True(t, v.IsPrivate())

	applyPrivacyStatus(v, "unlisted")
	assert.False(t, v.IsPrivate())
	assert.Equal(t, PermissionDenied, v.AccessControl(ActionList))

	applyPrivacyStatus(v, "public")
	assert.False(t, v.IsPrivate())
	assert.Equal(t, PermissionAllowed, v.AccessControl(ActionList))

	// Unknown tokens leave the video untouched.
	applyPrivacyStatus(v, "secret")
	assert.False(t, v.IsPrivate())
	assert.Equal(t, PermissionAllowed, v.AccessControl(ActionList))
}

func TestUploadStateName(t *testing.T) {
	cases := []struct {
		uploadStatus     string
		processingStatus string
		want             string
	}{
		{"deleted", "", "deleted"},
		{"failed", "", "failed"},
		{"rejected", "", "rejected"},
		{"restricted", "", "restricted"},
		{"failed", "processing", "failed"}, // terminal statuses dominate
		{"uploaded", "processing", "processing"},
		{"", "processing", "processing"},
		{"processed", "succeeded", ""},
		{"uploaded", "", ""},
		{"", "", ""},
	}

	for _, tc := range cases {
		got := uploadStateName(tc.uploadStatus, tc.processingStatus)
		assert.Equal(t, tc.want, got, "uploadStatus=%q processingStatus=%q",
			tc.uploadStatus, tc.processingStatus)
	}
}

func TestUploadStateReason(t *testing.T) {
	rejected := []struct {
		reason string
		want   string
	}{
		{"claim", "copyright"},
		{"copyright", "copyright"},
		{"trademark", "copyright"},
		{"duplicate", "duplicate"},
		{"uploaderAccountClosed", "duplicate"},
		{"uploaderAccountSuspended", "duplicate"},
		{"inappropriate", "inappropriate"},
		{"length", "tooLong"},
		{"tooLong", "tooLong"}, // legacy code is a fixed point
		{"termsOfUse", "termsOfUse"},
		{"somethingNew", "termsOfUse"}, // fallback
	}
	for _, tc := range rejected {
		got := uploadStateReason("rejected", "", tc.reason)
		assert.Equal(t, tc.want, got, "rejectionReason=%q", tc.reason)
	}

	failed := []struct {
		reason string
		want   string
	}{
		{"codec", "unsupportedCodec"},
		{"unsupportedCodec", "unsupportedCodec"},
		{"conversion", "invalidFormat"},
		{"invalidFormat", "invalidFormat"},
		{"emptyFile", "empty"},
		{"empty", "empty"},
		{"tooSmall", "tooSmall"},
		{"uploadAborted", "cantProcess"}, // fallback
	}
	for _, tc := range failed {
		got := uploadStateReason("failed", tc.reason, "")
		assert.Equal(t, tc.want, got, "failureReason=%q", tc.reason)
	}

	// Restriction reasons pass through unbucketed.
	assert.Equal(t, "requesterRegion", uploadStateReason("restricted", "", "requesterRegion"))
	assert.Equal(t, "limitedSyndication", uploadStateReason("restricted", "", "limitedSyndication"))

	// No reason code outside the failed, rejected and restricted states.
	assert.Equal(t, "", uploadStateReason("processing", "codec", "claim"))
	assert.Equal(t, "", uploadStateReason("deleted", "codec", "claim"))
	assert.Equal(t, "", uploadStateReason("", "codec", "claim"))
}

func TestMpaaRating(t *testing.T) {
	cases := map[string]string{
		"mpaaG":       "g",
		"mpaaNc17":    "nc-17",
		"mpaaPg":      "pg",
		"mpaaPg13":    "pg-13",
		"mpaaR":       "r",
		"mpaaUnrated": "",
		"":            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, mpaaRating(in), "mpaa %q", in)
	}
}

func TestTvpgRating(t *testing.T) {
	cases := map[string]string{
		"pg14":        "tv-14",
		"tvpgG":       "tv-g",
		"tvpgMa":      "tv-ma",
		"tvpgPg":      "tv-pg",
		"tvpgY":       "tv-y",
		"tvpgY7":      "tv-y7",
		"tvpgY7Fv":    "tv-y7-fv",
		"tvpgUnrated": "",
		"":            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, tvpgRating(in), "tvpg %q", in)
	}
}

func TestParsePermission(t *testing.T) {
	p, err := parsePermission("allowed")
	assert.NoError(t, err)
	assert.Equal(t, PermissionAllowed, p)

	p, err = parsePermission("denied")
	assert.NoError(t, err)
	assert.Equal(t, PermissionDenied, p)

	p, err = parsePermission("moderated")
	assert.NoError(t, err)
	assert.Equal(t, PermissionModerated, p)

	_, err = parsePermission("sometimes")
	assert.ErrorIs(t, err, ErrUnknownValue)
}
