package shared

import "github.com/google/uuid"

// Roles carried in access tokens.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Actor is the authenticated caller. Services receive it instead of reading
// the gin context so they stay usable from jobs and the CLI.
type Actor struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// ========================================
// BACKGROUND TASKS
// ========================================

const (
	TypeDeleteAsset       = "asset:delete"
	TypeCoverThumbnail    = "book:cover_thumbnail"
	TypeBackfillBookSizes = "book:backfill_sizes"
)

const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// DeleteAssetPayload asks the worker to retry a remote delete that failed
// during book cleanup.
type DeleteAssetPayload struct {
	BookID  string `json:"bookId"`
	Backend string `json:"backend"`
	Key     string `json:"key"`
	Kind    string `json:"kind"`
	Exact   bool   `json:"exact"`
}

// CoverThumbnailPayload identifies a stored cover to render a thumbnail for.
type CoverThumbnailPayload struct {
	BookID  string `json:"bookId"`
	Backend string `json:"backend"`
	Key     string `json:"key"`
}
