package reconcile

// BuildSnapshot indexes events by key. When two events share a key the later
// one wins and onDuplicate (if non-nil) is called with the discarded and the
// kept event.
func BuildSnapshot(events []Event, onDuplicate func(dropped, kept Event)) Snapshot {
	snap := make(Snapshot, len(events))
	for _, e := range events {
		k := e.Key()
		if prev, ok := snap[k]; ok && onDuplicate != nil {
			onDuplicate(prev, e)
		}
		snap[k] = e
	}
	return snap
}

// IndexExisting indexes persisted rows by key with the same last-write-wins
// rule as BuildSnapshot.
func IndexExisting(rows []PersistedEvent, onDuplicate func(dropped, kept PersistedEvent)) map[Key]PersistedEvent {
	idx := make(map[Key]PersistedEvent, len(rows))
	for _, r := range rows {
		k := r.Key()
		if prev, ok := idx[k]; ok && onDuplicate != nil {
			onDuplicate(prev, r)
		}
		idx[k] = r
	}
	return idx
}
