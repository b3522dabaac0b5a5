package meetup

import (
	"context"
	"errors"
	"testing"
	"time"

	"meetupsync/internal/extract"
	"meetupsync/internal/model"
)

type stubResolver struct {
	url string
	err error
	// pages records the URLs the builder asked about.
	pages []string
}

func (s *stubResolver) Resolve(_ context.Context, pageURL string) (string, error) {
	s.pages = append(s.pages, pageURL)
	return s.url, s.err
}

func testBuilder(r BannerResolver) *Builder {
	return &Builder{
		Formatter:     extract.NewDescriptionFormatter(),
		Banner:        r,
		DefaultBanner: "/assets/images/events/default.jpg",
		BannerAlt:     "WCC Meetup event image",
		LinkTitle:     "View meetup event",
		LinkTarget:    "_target",
	}
}

func TestBuildFormatsDateTimeExpiration(t *testing.T) {
	b := testBuilder(&stubResolver{})
	occ := model.Occurrence{
		Title: "Intro to Go",
		Start: time.Date(2026, time.January, 14, 18, 0, 0, 0, time.UTC),
	}

	ev, err := b.Build(context.Background(), occ)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if ev.Date != "WED, JAN 14, 2026" {
		t.Errorf("date = %q, want %q", ev.Date, "WED, JAN 14, 2026")
	}
	if ev.Time != "06:00 PM UTC" {
		t.Errorf("time = %q, want %q", ev.Time, "06:00 PM UTC")
	}
	if ev.Expiration != "20260114" {
		t.Errorf("expiration = %q, want %q", ev.Expiration, "20260114")
	}
}

func TestBuildDisplayTimezoneConversion(t *testing.T) {
	b := testBuilder(&stubResolver{})
	b.Location = time.FixedZone("KST", 9*60*60)
	occ := model.Occurrence{
		Title: "Evening Talk",
		Start: time.Date(2026, time.January, 14, 18, 0, 0, 0, time.UTC),
	}

	ev, err := b.Build(context.Background(), occ)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// 18:00 UTC is 03:00 next day in KST.
	if ev.Date != "THU, JAN 15, 2026" {
		t.Errorf("date = %q, want %q", ev.Date, "THU, JAN 15, 2026")
	}
	if ev.Time != "03:00 AM KST" {
		t.Errorf("time = %q, want %q", ev.Time, "03:00 AM KST")
	}
	if ev.Expiration != "20260115" {
		t.Errorf("expiration = %q, want %q", ev.Expiration, "20260115")
	}
}

func TestBuildAssemblesFields(t *testing.T) {
	resolver := &stubResolver{url: "https://img.example.com/banner.jpg"}
	b := testBuilder(resolver)
	occ := model.Occurrence{
		Title:       "Tech Evening",
		Description: "Host: Alice\nCo-host: Bob\nSpeaker: Carol\nA night of talks.\nSee you there!",
		URL:         "https://meetup.example.com/events/1",
		Start:       time.Date(2026, time.March, 2, 19, 30, 0, 0, time.UTC),
	}

	ev, err := b.Build(context.Background(), occ)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if ev.Host != "Alice and Bob" {
		t.Errorf("host = %q, want %q", ev.Host, "Alice and Bob")
	}
	if ev.Speaker != "Carol" {
		t.Errorf("speaker = %q, want %q", ev.Speaker, "Carol")
	}
	if ev.Image.Path != "https://img.example.com/banner.jpg" {
		t.Errorf("image path = %q", ev.Image.Path)
	}
	if ev.Image.Alt != "WCC Meetup event image" {
		t.Errorf("image alt = %q", ev.Image.Alt)
	}
	if ev.Link.Path != occ.URL || ev.Link.Title != "View meetup event" || ev.Link.Target != "_target" {
		t.Errorf("link = %+v", ev.Link)
	}
	if len(resolver.pages) != 1 || resolver.pages[0] != occ.URL {
		t.Errorf("resolver asked about %v, want [%s]", resolver.pages, occ.URL)
	}
}

func TestBuildDescriptionNewlinesBecomeSpaces(t *testing.T) {
	b := testBuilder(&stubResolver{})
	occ := model.Occurrence{
		Title:       "Tech Evening",
		Description: "First line\nSecond line\nThird line",
		Start:       time.Date(2026, time.March, 2, 19, 30, 0, 0, time.UTC),
	}

	ev, err := b.Build(context.Background(), occ)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if ev.Description != "First line Second line Third line" {
		t.Errorf("description = %q", ev.Description)
	}
}

func TestBuildDefaultBannerOnEmptyLookup(t *testing.T) {
	b := testBuilder(&stubResolver{url: ""})
	occ := model.Occurrence{
		Title: "No Banner",
		URL:   "https://meetup.example.com/events/2",
		Start: time.Date(2026, time.April, 1, 18, 0, 0, 0, time.UTC),
	}

	ev, err := b.Build(context.Background(), occ)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if ev.Image.Path != "/assets/images/events/default.jpg" {
		t.Errorf("image path = %q, want default", ev.Image.Path)
	}
}

func TestBuildBannerErrorPropagates(t *testing.T) {
	b := testBuilder(&stubResolver{err: errors.New("connection refused")})
	occ := model.Occurrence{
		Title: "Broken",
		URL:   "https://meetup.example.com/events/3",
		Start: time.Date(2026, time.April, 1, 18, 0, 0, 0, time.UTC),
	}

	if _, err := b.Build(context.Background(), occ); err == nil {
		t.Fatal("expected banner lookup error to propagate")
	}
}

func TestBuildEmptyDescription(t *testing.T) {
	b := testBuilder(&stubResolver{})
	occ := model.Occurrence{
		Title: "Bare Event",
		Start: time.Date(2026, time.May, 5, 12, 0, 0, 0, time.UTC),
	}

	ev, err := b.Build(context.Background(), occ)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// Absent data stays an empty string, never null.
	if ev.Description != "" || ev.Host != "" || ev.Speaker != "" {
		t.Errorf("expected empty strings, got %+v", ev)
	}
	if ev.CategoryStyle != "tech-talk" || ev.CategoryName != "Tech Talk" {
		t.Errorf("category = %s/%s, want tech-talk default", ev.CategoryStyle, ev.CategoryName)
	}
}
