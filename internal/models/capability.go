package models

// Capability names one action a role may be allowed to perform. All role
// checks go through the single table below so that the approver role sets are
// defined exactly once.
type Capability string

const (
	CapViewAllSubmissions    Capability = "view_all_submissions"
	CapViewVideoSubmissions  Capability = "view_video_submissions"
	CapViewPosterSubmissions Capability = "view_poster_submissions"
	CapApproveSubmission     Capability = "approve_submission"
	CapSupportSubmission     Capability = "support_submission"
	CapApproveLeave          Capability = "approve_leave"
	CapSupportLeave          Capability = "support_leave"
	CapAdmin                 Capability = "admin"
)

var roleCapabilities = map[Role]map[Capability]struct{}{
	RoleKetuaMedia: capSet(
		CapViewAllSubmissions, CapViewVideoSubmissions, CapViewPosterSubmissions,
		CapApproveSubmission, CapApproveLeave, CapAdmin,
	),
	RoleSetiausaha: capSet(
		CapViewAllSubmissions, CapViewVideoSubmissions, CapViewPosterSubmissions,
		CapSupportSubmission, CapSupportLeave, CapAdmin,
	),
	RoleJQC: capSet(
		CapViewAllSubmissions, CapViewVideoSubmissions, CapViewPosterSubmissions,
		CapSupportSubmission, CapSupportLeave, CapAdmin,
	),
	RoleKetuaVideo: capSet(
		CapViewVideoSubmissions,
		CapSupportSubmission, CapSupportLeave,
	),
	RoleKetuaPoster: capSet(
		CapViewPosterSubmissions,
		CapSupportSubmission, CapSupportLeave,
	),
	RoleMember: {},
}

func capSet(caps ...Capability) map[Capability]struct{} {
	set := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// HasCapability reports whether the role grants the capability. Unknown roles
// hold no capabilities.
func HasCapability(role Role, cap Capability) bool {
	caps, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	_, granted := caps[cap]
	return granted
}

// Capabilities lists the capabilities granted to a role.
func Capabilities(role Role) []Capability {
	caps := roleCapabilities[role]
	out := make([]Capability, 0, len(caps))
	for _, c := range []Capability{
		CapViewAllSubmissions, CapViewVideoSubmissions, CapViewPosterSubmissions,
		CapApproveSubmission, CapSupportSubmission,
		CapApproveLeave, CapSupportLeave, CapAdmin,
	} {
		if _, ok := caps[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
