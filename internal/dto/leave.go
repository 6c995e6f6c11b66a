package dto

// CreateLeaveRequest is the payload for filing a leave request. Dates use the
// YYYY-MM-DD calendar form; the service enforces end >= start.
type CreateLeaveRequest struct {
	Type      string `json:"type" validate:"required,oneof=sick annual emergency personal"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"required,max=1000"`
}
