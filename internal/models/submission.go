package models

import "time"

// SubmissionType distinguishes the two media kinds handled by the unit.
type SubmissionType string

const (
	SubmissionPoster SubmissionType = "poster"
	SubmissionVideo  SubmissionType = "video"
)

// Status is the approval state shared by submissions and leave requests.
// Rejected is reserved: seeds may produce it but no transition sets it.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// MediaKind indicates how the media payload is referenced.
type MediaKind string

const (
	MediaFile MediaKind = "file"
	MediaLink MediaKind = "link"
)

// Media locates the submitted artifact.
type Media struct {
	Kind    MediaKind `json:"kind"`
	Locator string    `json:"locator"`
}

// SupportRecord is one non-blocking endorsement. Append-only, at most one per
// approver.
type SupportRecord struct {
	Approver     string    `json:"approver"`
	ApproverName string    `json:"approver_name"`
	Role         string    `json:"role"`
	Timestamp    time.Time `json:"timestamp"`
}

// FinalRecord is the single authoritative approval by the chief role.
type FinalRecord struct {
	Approver     string    `json:"approver"`
	ApproverName string    `json:"approver_name"`
	Timestamp    time.Time `json:"timestamp"`
}

// Submission is a poster or video item routed through the approval chain.
// Submissions are never deleted.
type Submission struct {
	ID               string          `json:"id"`
	Type             SubmissionType  `json:"type"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	SubmittedBy      string          `json:"submitted_by"`
	SubmitterName    string          `json:"submitter_name"`
	SubmitterRole    string          `json:"submitter_role"`
	Timestamp        time.Time       `json:"timestamp"`
	Status           Status          `json:"status"`
	SupportApprovals []SupportRecord `json:"support_approvals"`
	FinalApproval    *FinalRecord    `json:"final_approval,omitempty"`
	Media            Media           `json:"media"`
}

// SupportedBy reports whether the given approver already signed.
func (s *Submission) SupportedBy(username string) bool {
	for _, rec := range s.SupportApprovals {
		if rec.Approver == username {
			return true
		}
	}
	return false
}

// ApprovalShadow is the denormalized snapshot of a pending submission written
// under the "approvals" key at seed time. It is never updated afterwards and
// must not be read for authorization decisions.
type ApprovalShadow struct {
	ID            string   `json:"id"`
	SubmissionID  string   `json:"submission_id"`
	Status        Status   `json:"status"`
	Supporters    []string `json:"supporters"`
	FinalApprover Role     `json:"final_approver"`
}
