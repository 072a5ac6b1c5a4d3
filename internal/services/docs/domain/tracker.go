package domain

// ChangeKind classifies an entity touched inside one batch transaction
type ChangeKind int

// Change kinds
const (
	ChangeAdded ChangeKind = iota
	ChangeModified
	ChangeDeleted
)

// Change is one tracked entity mutation
type Change struct {
	DocID string
	Kind  ChangeKind
}

// Tracker is the batch-scoped change set: units of work record the entities
// they touch and the reindex events they raise, and the coordinator reads
// both back before commit. It lives for exactly one batch and is discarded
// after the transaction ends.
//
// Not safe for concurrent use; the coordinator runs units strictly one at a
// time, so none is needed
type Tracker struct {
	order   []string
	changes map[string]ChangeKind
	events  []ReindexEvent
}

// NewTracker constructs an empty Tracker
func NewTracker() *Tracker {
	return &Tracker{changes: map[string]ChangeKind{}}
}

// Added records an entity insert
func (t *Tracker) Added(docID string) { t.record(docID, ChangeAdded) }

// Modified records an entity update
func (t *Tracker) Modified(docID string) { t.record(docID, ChangeModified) }

// Deleted records an entity delete
func (t *Tracker) Deleted(docID string) { t.record(docID, ChangeDeleted) }

func (t *Tracker) record(docID string, kind ChangeKind) {
	prev, seen := t.changes[docID]
	if !seen {
		t.order = append(t.order, docID)
		t.changes[docID] = kind
		return
	}
	// merge: an insert stays an insert through later updates; a delete wins;
	// delete followed by re-insert collapses to modified
	switch {
	case kind == ChangeDeleted:
		t.changes[docID] = ChangeDeleted
	case prev == ChangeDeleted && kind == ChangeAdded:
		t.changes[docID] = ChangeModified
	case prev == ChangeAdded:
		// keep added
	default:
		t.changes[docID] = kind
	}
}

// Raise appends a reindex intent event
func (t *Tracker) Raise(evt ReindexEvent) { t.events = append(t.events, evt) }

// Changes returns tracked changes in first-touch order
func (t *Tracker) Changes() []Change {
	out := make([]Change, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, Change{DocID: id, Kind: t.changes[id]})
	}
	return out
}

// DrainEvents returns all raised events and clears them from the tracker
func (t *Tracker) DrainEvents() []ReindexEvent {
	evts := t.events
	t.events = nil
	return evts
}
