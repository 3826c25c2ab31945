package media

import (
	"time"

	"github.com/google/uuid"
)

// MediaKind distinguishes the asset types an athlete can attach.
type MediaKind string

const (
	KindProfileImage  MediaKind = "profile_image"
	KindHighlightClip MediaKind = "highlight_clip"
	KindTranscript    MediaKind = "transcript"
)

// Asset is one uploaded object in the athlete's media library.
type Asset struct {
	ID          uuid.UUID `json:"id" db:"id"`
	AthleteID   uuid.UUID `json:"athlete_id" db:"athlete_id"`
	Kind        MediaKind `json:"kind" db:"kind"`
	FileName    string    `json:"file_name" db:"file_name"`
	ContentType string    `json:"content_type" db:"content_type"`
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	StorageKey  string    `json:"-" db:"storage_key"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// AssetView is an asset plus a short-lived download URL.
type AssetView struct {
	Asset
	URL string `json:"url"`
}
