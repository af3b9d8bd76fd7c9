package reconcile

import "github.com/ginjaninja78/weight-reconciler/internal/dataset"

// ReferenceEntry is the aggregate of every ledger row sharing an identifier.
type ReferenceEntry struct {
	// NetWeight is the sum of the parsed weights of Rows.
	NetWeight float64 `json:"poidsNet"`

	// Rows are the contributing ledger rows, in ledger order.
	Rows []dataset.Row `json:"-"`
}

// Reference maps a normalized ledger identifier to its aggregated weight.
type Reference struct {
	entries map[string]*ReferenceEntry
	order   []string
}

// Aggregate builds a fresh Reference from the ledger. Rows whose identifier
// normalizes to "" are left out: an unlabeled ledger row cannot be joined.
// Weights are summed as parsed, negatives included.
func Aggregate(ledger *dataset.Dataset, b Bindings) *Reference {
	ref := &Reference{entries: make(map[string]*ReferenceEntry)}
	if ledger == nil {
		return ref
	}

	for _, row := range ledger.Rows {
		id := NormalizeIdentifier(row.Get(b.Resource))
		if id == "" {
			continue
		}

		weight := ParseNumber(row.Get(b.NetWeight))
		if entry, ok := ref.entries[id]; ok {
			entry.NetWeight += weight
			entry.Rows = append(entry.Rows, row)
			continue
		}

		ref.entries[id] = &ReferenceEntry{
			NetWeight: weight,
			Rows:      []dataset.Row{row},
		}
		ref.order = append(ref.order, id)
	}

	return ref
}

// Lookup returns the entry for a normalized identifier.
func (r *Reference) Lookup(id string) (*ReferenceEntry, bool) {
	entry, ok := r.entries[id]
	return entry, ok
}

// Len returns the number of distinct identifiers.
func (r *Reference) Len() int {
	return len(r.entries)
}

// IDs returns the identifiers in first-seen ledger order.
func (r *Reference) IDs() []string {
	return append([]string(nil), r.order...)
}
