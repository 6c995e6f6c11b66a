package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKetuaMediaHoldsFinalApproval(t *testing.T) {
	assert.True(t, HasCapability(RoleKetuaMedia, CapApproveSubmission))
	assert.True(t, HasCapability(RoleKetuaMedia, CapApproveLeave))
	assert.True(t, HasCapability(RoleKetuaMedia, CapViewAllSubmissions))
	assert.False(t, HasCapability(RoleKetuaMedia, CapSupportSubmission))
}

func TestSupportRolesCannotFinalApprove(t *testing.T) {
	for _, role := range []Role{RoleSetiausaha, RoleJQC, RoleKetuaVideo, RoleKetuaPoster} {
		assert.False(t, HasCapability(role, CapApproveSubmission), "role %s", role)
		assert.False(t, HasCapability(role, CapApproveLeave), "role %s", role)
		assert.True(t, HasCapability(role, CapSupportSubmission), "role %s", role)
		assert.True(t, HasCapability(role, CapSupportLeave), "role %s", role)
	}
}

func TestUnitLeadsSeeOnlyTheirMediaType(t *testing.T) {
	assert.True(t, HasCapability(RoleKetuaVideo, CapViewVideoSubmissions))
	assert.False(t, HasCapability(RoleKetuaVideo, CapViewAllSubmissions))
	assert.False(t, HasCapability(RoleKetuaVideo, CapViewPosterSubmissions))

	assert.True(t, HasCapability(RoleKetuaPoster, CapViewPosterSubmissions))
	assert.False(t, HasCapability(RoleKetuaPoster, CapViewAllSubmissions))
	assert.False(t, HasCapability(RoleKetuaPoster, CapViewVideoSubmissions))
}

func TestMemberAndUnknownRolesHoldNothing(t *testing.T) {
	assert.Empty(t, Capabilities(RoleMember))
	assert.Empty(t, Capabilities(Role("intern")))
	assert.False(t, HasCapability(Role("intern"), CapSupportSubmission))
}

func TestSessionCanFailsClosed(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.Can(CapAdmin))
	assert.False(t, (&Session{}).Can(CapAdmin))

	s := &Session{CurrentUser: &UserInfo{Username: "admin", Role: RoleKetuaMedia}}
	assert.True(t, s.Can(CapApproveSubmission))
	assert.False(t, s.Can(CapSupportSubmission))
}
