package dto

import "time"

// DashboardStats summarises the submission collection for the overview cards.
type DashboardStats struct {
	TotalSubmissions int `json:"total_submissions"`
	Pending          int `json:"pending"`
	Approved         int `json:"approved"`
	Rejected         int `json:"rejected"`
}

// ActivityItem is one row of the recent-activity feed.
type ActivityItem struct {
	Kind      string    `json:"kind"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
