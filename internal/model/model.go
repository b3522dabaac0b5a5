package model

import (
	"strings"
	"time"
)

// Image is the banner image block persisted with each event.
type Image struct {
	Path string `json:"path"`
	Alt  string `json:"alt"`
}

// WebLink points back at the source meetup page.
type WebLink struct {
	Path   string `json:"path"`
	Title  string `json:"title"`
	Target string `json:"target"`
}

// MeetupEvent is one normalized event as persisted in the JSON store.
// Every field is always a plain string: absent data is stored as "" so
// downstream consumers never see null. Field order matches the store
// files written by earlier importer versions.
type MeetupEvent struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	CategoryStyle string  `json:"category_style"`
	CategoryName  string  `json:"category_name"`
	Date          string  `json:"date"`
	Expiration    string  `json:"expiration"`
	Host          string  `json:"host"`
	Speaker       string  `json:"speaker"`
	Time          string  `json:"time"`
	Image         Image   `json:"image"`
	Link          WebLink `json:"link"`
}

// Key returns the identity key used to detect the same event across runs.
// Two events are the same entity iff their keys match exactly; the title
// is trimmed at the edges only and the comparison stays case-sensitive.
func (e MeetupEvent) Key() string {
	return strings.TrimSpace(e.Title) + " - " + e.Date
}

// Occurrence is a single concrete calendar entry after recurrence
// expansion: the raw material one MeetupEvent is built from.
type Occurrence struct {
	UID         string
	Title       string
	Description string
	URL         string

	AllDay bool

	// Start / End are in the event's own timezone as declared by the
	// calendar; display conversion happens later in the builder.
	Start time.Time
	End   time.Time
}
