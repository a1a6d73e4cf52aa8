package youtube

// UploadState summarizes where an uploaded video sits in the processing
// pipeline. It is derived from the raw uploadStatus, processingStatus,
// failureReason and rejectionReason wire fields; a video parsed from either
// wire generation reports the same logical state.
type UploadState struct {
	name       string
	reasonCode string
	helpURI    string
	message    string
}

// newUploadState derives the state from the four raw slots.
func newUploadState(uploadStatus, processingStatus, failureReason, rejectionReason string) UploadState {
	name := uploadStateName(uploadStatus, processingStatus)
	return UploadState{
		name:       name,
		reasonCode: uploadStateReason(name, failureReason, rejectionReason),
	}
}

// Name returns one of processing, deleted, rejected, failed or restricted,
// or "" when the video is in none of those states. restricted is only
// reported by legacy documents.
func (s UploadState) Name() string { return s.name }

// ReasonCode returns the bucketed reason for a failed or rejected state, or
// "". The reason is always "" when Name is "".
func (s UploadState) ReasonCode() string { return s.reasonCode }

// HelpURI returns a URI with more information about the state, or "".
func (s UploadState) HelpURI() string { return s.helpURI }

// Message returns a human-readable description of the state, or "".
func (s UploadState) Message() string { return s.message }
