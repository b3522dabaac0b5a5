package store

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"meetupsync/internal/model"
)

func sampleEvent(title, date string) model.MeetupEvent {
	return model.MeetupEvent{
		Title:         title,
		Description:   "A night of talks.",
		CategoryStyle: "tech-talk",
		CategoryName:  "Tech Talk",
		Date:          date,
		Expiration:    "20260114",
		Host:          "Alice",
		Speaker:       "Carol",
		Time:          "06:00 PM UTC",
		Image: model.Image{
			Path: "https://img.example.com/banner.jpg",
			Alt:  "WCC Meetup event image",
		},
		Link: model.WebLink{
			Path:   "https://meetup.example.com/events/1",
			Title:  "View meetup event",
			Target: "_target",
		},
	}
}

func TestLoadMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "events.json"), nil)
	if got := s.Load(); len(got) != 0 {
		t.Fatalf("Load = %v, want empty", got)
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(path, nil)
	if got := s.Load(); len(got) != 0 {
		t.Fatalf("Load = %v, want empty for malformed store", got)
	}
}

func TestAppendLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "events.json")
	s := New(path, nil)

	events := []model.MeetupEvent{
		sampleEvent("Intro to Go", "WED, JAN 14, 2026"),
		sampleEvent("Writing Club", "FRI, MAR 20, 2026"),
	}
	if err := s.Append(events); err != nil {
		t.Fatalf("append: %v", err)
	}

	got := s.Load()
	if !reflect.DeepEqual(got, events) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, events)
	}
}

func TestAppendPreservesExistingOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	s := New(path, nil)

	first := sampleEvent("First", "MON, JAN 05, 2026")
	second := sampleEvent("Second", "TUE, JAN 06, 2026")
	third := sampleEvent("Third", "WED, JAN 07, 2026")

	if err := s.Append([]model.MeetupEvent{first, second}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.Append([]model.MeetupEvent{third}); err != nil {
		t.Fatalf("append: %v", err)
	}

	got := s.Load()
	if len(got) != 3 {
		t.Fatalf("got %d events, want 3", len(got))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if got[i].Title != want {
			t.Errorf("position %d = %q, want %q", i, got[i].Title, want)
		}
	}
}

func TestAppendWritesRawURLs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.json")
	s := New(path, nil)

	ev := sampleEvent("Raw URL", "WED, JAN 14, 2026")
	ev.Link.Path = "https://meetup.example.com/events?id=1&ref=wcc"
	if err := s.Append([]model.MeetupEvent{ev}); err != nil {
		t.Fatalf("append: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("https://meetup.example.com/events?id=1&ref=wcc")) {
		t.Fatalf("URL was escaped in store file:\n%s", data)
	}
}

func TestMergeSkipsDuplicateKeys(t *testing.T) {
	existing := []model.MeetupEvent{sampleEvent("Talk A", "MON, JAN 01, 2024")}

	// Same title and date but different payload: still the same entity.
	dup := sampleEvent("Talk A", "MON, JAN 01, 2024")
	dup.Speaker = "Someone Else"

	if got := Merge(existing, []model.MeetupEvent{dup}); len(got) != 0 {
		t.Fatalf("Merge = %v, want empty", got)
	}

	// A different date is a different entity.
	other := sampleEvent("Talk A", "TUE, JAN 02, 2024")
	got := Merge(existing, []model.MeetupEvent{other})
	if len(got) != 1 || got[0].Date != "TUE, JAN 02, 2024" {
		t.Fatalf("Merge = %v, want the new-date event", got)
	}
}

func TestMergeKeyTrimsTitleEdgesOnly(t *testing.T) {
	existing := []model.MeetupEvent{sampleEvent("Talk A", "MON, JAN 01, 2024")}

	padded := sampleEvent("  Talk A  ", "MON, JAN 01, 2024")
	if got := Merge(existing, []model.MeetupEvent{padded}); len(got) != 0 {
		t.Fatalf("edge-padded title should collide, got %v", got)
	}

	// Case differences are different keys.
	upper := sampleEvent("TALK A", "MON, JAN 01, 2024")
	if got := Merge(existing, []model.MeetupEvent{upper}); len(got) != 1 {
		t.Fatalf("case-differing title should not collide, got %v", got)
	}
}

func TestMergeBatchLocalDuplicates(t *testing.T) {
	batch := []model.MeetupEvent{
		sampleEvent("Talk A", "MON, JAN 01, 2024"),
		sampleEvent("Talk A", "MON, JAN 01, 2024"),
		sampleEvent("Talk B", "MON, JAN 01, 2024"),
	}

	got := Merge(nil, batch)
	if len(got) != 2 {
		t.Fatalf("Merge = %d events, want 2", len(got))
	}
	if got[0].Title != "Talk A" || got[1].Title != "Talk B" {
		t.Fatalf("Merge order = %v", got)
	}
}

func TestMergeIdempotent(t *testing.T) {
	batch := []model.MeetupEvent{
		sampleEvent("Talk A", "MON, JAN 01, 2024"),
		sampleEvent("Talk B", "TUE, JAN 02, 2024"),
	}

	accepted := Merge(nil, batch)
	if len(accepted) != 2 {
		t.Fatalf("first merge = %d, want 2", len(accepted))
	}

	// Merging the same batch against its own output accepts nothing.
	if again := Merge(accepted, batch); len(again) != 0 {
		t.Fatalf("second merge = %v, want empty", again)
	}
}

func TestMergeDoesNotMutateExisting(t *testing.T) {
	existing := []model.MeetupEvent{
		sampleEvent("Talk A", "MON, JAN 01, 2024"),
		sampleEvent("Talk B", "TUE, JAN 02, 2024"),
	}
	snapshot := append([]model.MeetupEvent(nil), existing...)

	Merge(existing, []model.MeetupEvent{sampleEvent("Talk C", "WED, JAN 03, 2024")})

	if !reflect.DeepEqual(existing, snapshot) {
		t.Fatal("existing records were mutated")
	}
}
