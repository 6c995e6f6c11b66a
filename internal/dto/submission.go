package dto

// CreateSubmissionRequest is the payload for submitting a media item.
type CreateSubmissionRequest struct {
	Type         string `json:"type" validate:"required,oneof=poster video"`
	Title        string `json:"title" validate:"required,max=200"`
	Description  string `json:"description" validate:"max=2000"`
	MediaKind    string `json:"media_kind" validate:"required,oneof=file link"`
	MediaLocator string `json:"media_locator" validate:"required,max=500"`
}
