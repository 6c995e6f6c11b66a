package models

import (
	"math"
	"time"
)

// LeaveType categorises leave requests.
type LeaveType string

const (
	LeaveSick      LeaveType = "sick"
	LeaveAnnual    LeaveType = "annual"
	LeaveEmergency LeaveType = "emergency"
	LeavePersonal  LeaveType = "personal"
)

// LeaveRequest follows the same support/final approval chain as submissions.
// Final approval flips the status only; the original records no final-approver
// identity on leaves.
type LeaveRequest struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	UserName         string          `json:"user_name"`
	UserRole         string          `json:"user_role"`
	Type             LeaveType       `json:"type"`
	StartDate        time.Time       `json:"start_date"`
	EndDate          time.Time       `json:"end_date"`
	Reason           string          `json:"reason"`
	Status           Status          `json:"status"`
	SupportApprovals []SupportRecord `json:"support_approvals"`
	Timestamp        time.Time       `json:"timestamp"`
}

// SupportedBy reports whether the given approver already signed.
func (l *LeaveRequest) SupportedBy(username string) bool {
	for _, rec := range l.SupportApprovals {
		if rec.Approver == username {
			return true
		}
	}
	return false
}

// DurationDays is the inclusive day count of the leave range.
func (l *LeaveRequest) DurationDays() int {
	diff := l.EndDate.Sub(l.StartDate)
	return int(math.Ceil(diff.Hours()/24)) + 1
}

// Covers reports whether the date falls inside an approved leave. Pending and
// rejected leaves never cover a date.
func (l *LeaveRequest) Covers(d time.Time) bool {
	if l.Status != StatusApproved {
		return false
	}
	day := dateOf(d)
	return !day.Before(dateOf(l.StartDate)) && !day.After(dateOf(l.EndDate))
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
