package model

import (
	bookModel "inkdrop-backend/internal/domains/book/model"
	downloadModel "inkdrop-backend/internal/domains/download/model"
	requestModel "inkdrop-backend/internal/domains/request/model"
)

// RecentItems is how many rows each user dashboard list shows.
const RecentItems = 5

// AdminStats are the library-wide totals.
type AdminStats struct {
	TotalBooks      int `json:"totalBooks"`
	TotalUsers      int `json:"totalUsers"`
	TotalDownloads  int `json:"totalDownloads"`
	TotalRequests   int `json:"totalRequests"`
	PendingRequests int `json:"pendingRequests"`
}

// UserDashboard is the caller's own activity.
type UserDashboard struct {
	Totals          UserTotals                       `json:"totals"`
	RecentUploads   []bookModel.BookResponse         `json:"recentUploads"`
	RecentDownloads []downloadModel.DownloadWithBook `json:"recentDownloads"`
	RecentRequests  []requestModel.Request           `json:"recentRequests"`
}

type UserTotals struct {
	Uploads   int `json:"uploads"`
	Downloads int `json:"downloads"`
	Requests  int `json:"requests"`

	UnreadNotifications int `json:"unreadNotifications"`
}
