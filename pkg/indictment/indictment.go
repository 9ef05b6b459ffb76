// Package indictment indexes the solver's per-entity constraint violation reports.
package indictment

import (
	"bytes"
	"encoding/json"
	"fmt"

	"lintang/routeviz/pkg/score"
)

// EntityID is the identifier of an indicted visit or route. The solver writes
// it as a string or as a number depending on the entity; both decode to the
// same string.
type EntityID string

func (id *EntityID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = EntityID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("entity id: %w", err)
	}
	*id = EntityID(n.String())
	return nil
}

type ConstraintMatch struct {
	ConstraintName string `json:"constraintName"`
	Score          string `json:"score"`
}

func (m ConstraintMatch) Status() score.Status {
	return score.Classify(m.Score)
}

type Indictment struct {
	IndictedObjectID    EntityID          `json:"indictedObjectID"`
	IndictedObjectClass string            `json:"indictedObjectClass,omitempty"`
	Score               string            `json:"score"`
	MatchCount          int               `json:"matchCount"`
	ConstraintMatches   []ConstraintMatch `json:"constraintMatches"`
}

func (i Indictment) Status() score.Status {
	return score.Classify(i.Score)
}

// ConstraintScore is one line of the solution-wide score analysis.
type ConstraintScore struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

// Analysis is the score analysis document of a solution.
type Analysis struct {
	Score       string            `json:"score"`
	Constraints []ConstraintScore `json:"constraints"`
}
