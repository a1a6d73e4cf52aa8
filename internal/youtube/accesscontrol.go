package youtube

// Action is an operation other users may perform on a video.
type Action string

// The closed set of access-control actions.
const (
	ActionRate         Action = "rate"
	ActionComment      Action = "comment"
	ActionCommentVote  Action = "commentVote"
	ActionVideoRespond Action = "videoRespond"
	ActionEmbed        Action = "embed"
	ActionSyndicate    Action = "syndicate"
	ActionList         Action = "list"
)

var knownActions = map[Action]bool{
	ActionRate:         true,
	ActionComment:      true,
	ActionCommentVote:  true,
	ActionVideoRespond: true,
	ActionEmbed:        true,
	ActionSyndicate:    true,
	ActionList:         true,
}

// Permission is the level granted to an action.
type Permission int

const (
	// PermissionDenied forbids the action. Actions with no entry in the
	// access-control map report this.
	PermissionDenied Permission = iota
	// PermissionAllowed permits the action for everyone.
	PermissionAllowed
	// PermissionModerated permits the action subject to the owner's
	// approval. Only the rate and comment actions may be moderated.
	PermissionModerated
)

// String returns the wire token for the permission.
func (p Permission) String() string {
	switch p {
	case PermissionAllowed:
		return "allowed"
	case PermissionModerated:
		return "moderated"
	default:
		return "denied"
	}
}

// parsePermission maps a wire token onto a Permission. Unknown tokens fail
// with ErrUnknownValue.
func parsePermission(token string) (Permission, error) {
	switch token {
	case "allowed":
		return PermissionAllowed, nil
	case "denied":
		return PermissionDenied, nil
	case "moderated":
		return PermissionModerated, nil
	}
	return PermissionDenied, unknownValueErr("permission", token)
}

// checkAccessControl validates an (action, permission) assignment. Moderated
// is only meaningful for rate and comment.
func checkAccessControl(action Action, permission Permission) error {
	if permission == PermissionModerated &&
		action != ActionRate && action != ActionComment {
		return invalidArgErr("action %q cannot be moderated", action)
	}
	return nil
}
