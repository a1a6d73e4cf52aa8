package youtube

// Translation tables between the current (v3) wire vocabulary and the legacy
// vocabulary the entity model still speaks. Pure functions, no state.

// privacyStatus projects the (isPrivate, list-permission) pair onto the v3
// privacyStatus token. The list action's permission distinguishes public from
// unlisted when the video is not private.
func privacyStatus(isPrivate bool, listPerm Permission, listSet bool) string {
	switch {
	case isPrivate:
		return "private"
	case listSet && listPerm != PermissionAllowed:
		return "unlisted"
	default:
		return "public"
	}
}

// applyPrivacyStatus is the inverse projection: it maps a v3 privacyStatus
// token back onto the isPrivate flag and the list access-control entry.
// Unknown tokens leave the video untouched, matching the parser's tolerance
// of vocabulary growth.
func applyPrivacyStatus(v *Video, status string) {
	switch status {
	case "private":
		v.isPrivate = true
	case "public":
		v.isPrivate = false
		v.accessControls[ActionList] = PermissionAllowed
	case "unlisted":
		v.isPrivate = false
		v.accessControls[ActionList] = PermissionDenied
	}
}

// uploadStateName projects the v3 (uploadStatus, processingStatus) pair onto
// the legacy state name. deleted, failed and rejected upload statuses
// dominate; otherwise a processing processingStatus reports processing; any
// other combination has no state name. restricted only ever arrives through
// the legacy wire, which seeds it into the uploadStatus slot.
func uploadStateName(uploadStatus, processingStatus string) string {
	switch uploadStatus {
	case "deleted", "failed", "rejected", "restricted":
		return uploadStatus
	}
	if processingStatus == "processing" {
		return "processing"
	}
	return ""
}

// uploadStateReason buckets the granular v3 failure and rejection reasons
// into the legacy reason codes, keyed by the projected state name. The legacy
// codes themselves are fixed points, so a state recovered from a legacy
// document projects to itself.
func uploadStateReason(name, failureReason, rejectionReason string) string {
	switch name {
	case "rejected":
		switch rejectionReason {
		case "claim", "copyright", "trademark":
			return "copyright"
		case "duplicate", "uploaderAccountClosed", "uploaderAccountSuspended":
			return "duplicate"
		case "inappropriate":
			return "inappropriate"
		case "length", "tooLong":
			return "tooLong"
		case "termsOfUse":
			return "termsOfUse"
		default:
			return "termsOfUse"
		}
	case "failed":
		switch failureReason {
		case "codec", "unsupportedCodec":
			return "unsupportedCodec"
		case "conversion", "invalidFormat":
			return "invalidFormat"
		case "emptyFile", "empty":
			return "empty"
		case "tooSmall":
			return "tooSmall"
		default:
			return "cantProcess"
		}
	case "restricted":
		// Restriction reasons have no buckets; the legacy code passes
		// through.
		return rejectionReason
	}
	// Unset for processing, deleted and the empty name.
	return ""
}

// mpaaRating translates a v3 MPAA content-rating token to its short legacy
// form. Unknown tokens have no legacy form.
func mpaaRating(v3 string) string {
	switch v3 {
	case "mpaaG":
		return "g"
	case "mpaaNc17":
		return "nc-17"
	case "mpaaPg":
		return "pg"
	case "mpaaPg13":
		return "pg-13"
	case "mpaaR":
		return "r"
	}
	return ""
}

// tvpgRating translates a v3 TV-PG content-rating token to its short legacy
// form.
func tvpgRating(v3 string) string {
	switch v3 {
	case "pg14":
		return "tv-14"
	case "tvpgG":
		return "tv-g"
	case "tvpgMa":
		return "tv-ma"
	case "tvpgPg":
		return "tv-pg"
	case "tvpgY":
		return "tv-y"
	case "tvpgY7":
		return "tv-y7"
	case "tvpgY7Fv":
		return "tv-y7-fv"
	}
	return ""
}

// aspectRatio carries no information in the current wire version. The field
// is preserved for forward compatibility.
func aspectRatio(string) string {
	return ""
}
