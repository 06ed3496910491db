package pipeline

import "github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"

// FilterNegative drops every record with a negative count and returns one
// audit entry per negative field. Survivors keep their relative order.
// The input slice is not modified.
func FilterNegative(records []domain.CanonicalRecord) ([]domain.CanonicalRecord, []domain.RemovedRecord) {
	kept := make([]domain.CanonicalRecord, 0, len(records))
	removed := []domain.RemovedRecord{}

	for _, r := range records {
		bad := false
		for _, p := range domain.PublicationTypes {
			v := r.Counts.Get(p)
			if v >= 0 {
				continue
			}
			bad = true
			removed = append(removed, domain.RemovedRecord{
				Name:      r.Name,
				Reason:    domain.NegativeReason(v, p.Column()),
				Column:    p.Column(),
				Value:     v,
				Year:      r.Year,
				SourceRow: r.SourceRow,
			})
		}
		if !bad {
			kept = append(kept, r)
		}
	}
	return kept, removed
}

// Derive returns a copy of records with total publications and impact score
// recomputed from the counts
func Derive(records []domain.CanonicalRecord) []domain.CanonicalRecord {
	out := make([]domain.CanonicalRecord, len(records))
	for i, r := range records {
		r.Derive()
		out[i] = r
	}
	return out
}
