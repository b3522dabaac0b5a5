package store

import "meetupsync/internal/model"

// Merge returns the subset of incoming events whose identity key is not
// already present among existing events. Keys accepted earlier in the
// same batch count as present too, so one batch never contributes the
// same event twice. Input order is preserved and existing is never
// mutated.
func Merge(existing, incoming []model.MeetupEvent) []model.MeetupEvent {
	seen := make(map[string]struct{}, len(existing))
	for _, ev := range existing {
		seen[ev.Key()] = struct{}{}
	}

	accepted := make([]model.MeetupEvent, 0, len(incoming))
	for _, ev := range incoming {
		key := ev.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		accepted = append(accepted, ev)
	}
	return accepted
}
