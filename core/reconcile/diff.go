package reconcile

import "sort"

// Update is a planned participant count change for an existing row.
type Update struct {
	ID       string `json:"id"`
	Date     Date   `json:"date"`
	Time     Clock  `json:"time"`
	OldCount int    `json:"oldParticipants"`
	NewCount int    `json:"newParticipants"`
}

// Key returns the identity key of the update.
func (u Update) Key() Key {
	return Key{Date: u.Date, Time: u.Time}
}

// Removal is a planned removal of an existing row.
type Removal struct {
	ID               string `json:"id"`
	Date             Date   `json:"date"`
	Time             Clock  `json:"time"`
	ParticipantCount int    `json:"participants"`
}

// Key returns the identity key of the removal.
func (r Removal) Key() Key {
	return Key{Date: r.Date, Time: r.Time}
}

// Plan is the set of mutations that brings the store in line with a snapshot.
// Every key appears in at most one bucket.
type Plan struct {
	Inserts  []Event   `json:"inserts"`
	Updates  []Update  `json:"updates"`
	Removals []Removal `json:"removals"`

	// Unchanged counts keys present on both sides with equal counts.
	Unchanged int `json:"unchanged"`

	// HeldBack counts removal candidates rejected by the cutoff.
	HeldBack int `json:"heldBack"`
}

// Empty reports whether the plan has no mutations.
func (p Plan) Empty() bool {
	return len(p.Inserts) == 0 && len(p.Updates) == 0 && len(p.Removals) == 0
}

// Diff computes the plan that turns existing into incoming.
// Buckets are sorted by key so logs and reports are stable.
func Diff(existing map[Key]PersistedEvent, incoming Snapshot, cutoff Cutoff) Plan {
	plan := Plan{
		Inserts:  []Event{},
		Updates:  []Update{},
		Removals: []Removal{},
	}

	for k, ev := range incoming {
		cur, ok := existing[k]
		if !ok {
			plan.Inserts = append(plan.Inserts, ev)
			continue
		}
		if cur.ParticipantCount == ev.ParticipantCount {
			plan.Unchanged++
			continue
		}
		plan.Updates = append(plan.Updates, Update{
			ID:       cur.ID,
			Date:     k.Date,
			Time:     k.Time,
			OldCount: cur.ParticipantCount,
			NewCount: ev.ParticipantCount,
		})
	}

	for k, cur := range existing {
		if _, ok := incoming[k]; ok {
			continue
		}
		if !cutoff.Allows(k.Date) {
			plan.HeldBack++
			continue
		}
		plan.Removals = append(plan.Removals, Removal{
			ID:               cur.ID,
			Date:             k.Date,
			Time:             k.Time,
			ParticipantCount: cur.ParticipantCount,
		})
	}

	sort.Slice(plan.Inserts, func(i, j int) bool { return plan.Inserts[i].Key().Less(plan.Inserts[j].Key()) })
	sort.Slice(plan.Updates, func(i, j int) bool { return plan.Updates[i].Key().Less(plan.Updates[j].Key()) })
	sort.Slice(plan.Removals, func(i, j int) bool { return plan.Removals[i].Key().Less(plan.Removals[j].Key()) })

	return plan
}

// withoutRemovals returns p with every removal moved to HeldBack.
func (p Plan) withoutRemovals() Plan {
	p.HeldBack += len(p.Removals)
	p.Removals = []Removal{}
	return p
}
