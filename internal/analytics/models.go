package analytics

import (
	"time"

	"github.com/google/uuid"
)

// EventKind names a tracked profile interaction.
type EventKind string

const (
	EventProfileView   EventKind = "profile_view"
	EventMediaPlay     EventKind = "media_play"
	EventContactReveal EventKind = "contact_reveal"
)

// Event is one raw interaction, written to the hot event store.
type Event struct {
	AthleteID  uuid.UUID `dynamodbav:"athlete_id" json:"athlete_id"`
	OccurredAt time.Time `dynamodbav:"occurred_at" json:"occurred_at"`
	Kind       EventKind `dynamodbav:"kind" json:"kind"`
	Source     string    `dynamodbav:"source" json:"source"`
}

// DailyRollup is the aggregated per-day view served to athletes, kept in
// Postgres so it can be queried and exported cheaply.
type DailyRollup struct {
	AthleteID      uuid.UUID `json:"athlete_id" db:"athlete_id"`
	Day            time.Time `json:"day" db:"day"`
	ProfileViews   int       `json:"profile_views" db:"profile_views"`
	MediaPlays     int       `json:"media_plays" db:"media_plays"`
	ContactReveals int       `json:"contact_reveals" db:"contact_reveals"`
}

// Summary is the athlete-facing analytics response.
type Summary struct {
	AthleteID uuid.UUID     `json:"athlete_id"`
	From      time.Time     `json:"from"`
	To        time.Time     `json:"to"`
	Days      []DailyRollup `json:"days"`
	Totals    DailyRollup   `json:"totals"`
}
