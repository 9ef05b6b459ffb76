package indictment_test

import (
	"encoding/json"
	"testing"

	"lintang/routeviz/pkg/indictment"
	"lintang/routeviz/pkg/score"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	t.Run("last write wins", func(t *testing.T) {
		idx := indictment.Build([]indictment.Indictment{
			{IndictedObjectID: "7", Score: "-1hard/0soft", MatchCount: 1},
			{IndictedObjectID: "8", Score: "0hard/-2soft", MatchCount: 2},
			{IndictedObjectID: "7", Score: "0hard/-5soft", MatchCount: 3},
		})
		require.Len(t, idx, 2)
		ind, ok := idx.Lookup("7")
		require.True(t, ok)
		assert.Equal(t, 3, ind.MatchCount)
		assert.Equal(t, score.OK, idx.Classify("7"))
	})

	t.Run("absent entity is ok", func(t *testing.T) {
		idx := indictment.Build(nil)
		_, ok := idx.Lookup("missing")
		assert.False(t, ok)
		assert.Equal(t, score.OK, idx.Classify("missing"))

		var nilIdx indictment.Index
		assert.Equal(t, score.OK, nilIdx.Classify("missing"))
	})

	t.Run("hard violation", func(t *testing.T) {
		idx := indictment.Build([]indictment.Indictment{{IndictedObjectID: "C1", Score: "-2hard/0soft"}})
		assert.Equal(t, score.Violated, idx.Classify("C1"))
	})
}

func TestDecodeEntityID(t *testing.T) {
	raw := `[
		{"indictedObjectID": 12, "score": "-1hard/0soft", "matchCount": 1,
		 "constraintMatches": [{"constraintName": "late delivery", "score": "-1hard/0soft"}]},
		{"indictedObjectID": "shift-3", "score": "0hard/-4soft", "matchCount": 1, "constraintMatches": []}
	]`
	var list []indictment.Indictment
	require.NoError(t, json.Unmarshal([]byte(raw), &list))

	idx := indictment.Build(list)
	ind, ok := idx.Lookup("12")
	require.True(t, ok)
	assert.Equal(t, "late delivery", ind.ConstraintMatches[0].ConstraintName)
	assert.Equal(t, score.Violated, ind.ConstraintMatches[0].Status())

	_, ok = idx.Lookup("shift-3")
	assert.True(t, ok)
}
