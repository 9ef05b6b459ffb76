package indictment

import (
	"lintang/routeviz/pkg/score"
)

// Index maps entity ids to their indictment. Entities without violations have no entry.
type Index map[EntityID]Indictment

// Build indexes indictments by entity id. A later indictment for the same id
// replaces an earlier one.
func Build(indictments []Indictment) Index {
	idx := make(Index, len(indictments))
	for _, ind := range indictments {
		idx[ind.IndictedObjectID] = ind
	}
	return idx
}

// Lookup is safe on a nil index.
func (idx Index) Lookup(id EntityID) (Indictment, bool) {
	ind, ok := idx[id]
	return ind, ok
}

// Classify reports OK for entities that have no indictment.
func (idx Index) Classify(id EntityID) score.Status {
	ind, ok := idx.Lookup(id)
	if !ok {
		return score.OK
	}
	return ind.Status()
}
