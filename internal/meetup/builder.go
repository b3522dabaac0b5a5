// Package meetup assembles normalized meetup events from calendar
// occurrences and drives the import pipeline end to end.
package meetup

import (
	"context"
	"strings"
	"time"

	"meetupsync/internal/extract"
	"meetupsync/internal/model"
)

// Display formats for the date/time/expiration strings. Consumers of the
// store depend on these exactly, including the uppercased date.
const (
	dateLayout       = "Mon, Jan 02, 2006"
	timeLayout       = "03:04 PM MST"
	expirationLayout = "20060102"
)

// BannerResolver looks up a banner image URL for an event page.
// internal/banner provides the HTTP implementation; tests substitute
// stubs.
type BannerResolver interface {
	Resolve(ctx context.Context, pageURL string) (string, error)
}

// Builder turns one calendar occurrence into a normalized MeetupEvent.
type Builder struct {
	Formatter extract.DescriptionFormatter
	Banner    BannerResolver

	// Location, when non-nil, converts event times into this zone for
	// display. Nil keeps each event's own zone.
	Location *time.Location

	// DefaultBanner is substituted when the banner lookup yields "".
	DefaultBanner string
	BannerAlt     string
	LinkTitle     string
	LinkTarget    string
}

// Build derives the date/time/expiration strings from the occurrence
// start, extracts hosts and speakers, formats and categorizes the
// description, and resolves the banner image. Newlines in the final
// description are replaced with single spaces.
//
// The only error source is the banner lookup; its transport failures
// propagate and fail the run.
func (b *Builder) Build(ctx context.Context, occ model.Occurrence) (model.MeetupEvent, error) {
	start := occ.Start
	if b.Location != nil {
		start = start.In(b.Location)
	}

	raw := strings.TrimSpace(occ.Description)
	host, speaker := extract.HostsAndSpeakers(raw)
	description := b.Formatter.Format(raw)
	category := Categorize(description, occ.Title)

	imagePath := ""
	if b.Banner != nil {
		var err error
		imagePath, err = b.Banner.Resolve(ctx, occ.URL)
		if err != nil {
			return model.MeetupEvent{}, err
		}
	}
	if imagePath == "" {
		imagePath = b.DefaultBanner
	}

	return model.MeetupEvent{
		Title:         occ.Title,
		Description:   strings.ReplaceAll(description, "\n", " "),
		CategoryStyle: category.Style,
		CategoryName:  category.Name,
		Date:          strings.ToUpper(start.Format(dateLayout)),
		Expiration:    start.Format(expirationLayout),
		Host:          host,
		Speaker:       speaker,
		Time:          start.Format(timeLayout),
		Image:         model.Image{Path: imagePath, Alt: b.BannerAlt},
		Link:          model.WebLink{Path: occ.URL, Title: b.LinkTitle, Target: b.LinkTarget},
	}, nil
}
