package solverclient_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lintang/routeviz/pkg/server"
	"lintang/routeviz/pkg/solution"
	"lintang/routeviz/pkg/solverclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shiftJSON = `{
	"name": "lunch",
	"solverStatus": "NOT_SOLVING",
	"courierShifts": [
		{"id": "C1", "visits": [
			{"id": 1, "type": "RESTAURANT", "location": {"lat": 10, "lon": 20}},
			{"id": 2, "type": "CUSTOMER", "location": {"lat": 10, "lon": 20}}
		]}
	]
}`

const indictmentsJSON = `[
	{"indictedObjectID": 1, "score": "-1hard/0soft", "matchCount": 1,
	 "constraintMatches": [{"constraintName": "capacity", "score": "-1hard/0soft"}]}
]`

func newSolver(t *testing.T, analysisStatus int) *httptest.Server {
	t.Helper()
	return newSlowScoreSolver(t, analysisStatus, 0)
}

func newSlowScoreSolver(t *testing.T, analysisStatus int, scoreDelay time.Duration) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/fdo", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `["b", "a", 3]`)
	})
	mux.HandleFunc("/fdo/7", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		fmt.Fprint(w, shiftJSON)
	})
	mux.HandleFunc("/fdo/indictments/7", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, indictmentsJSON)
	})
	mux.HandleFunc("/fdo/score/7", func(w http.ResponseWriter, r *http.Request) {
		if scoreDelay > 0 {
			select {
			case <-time.After(scoreDelay):
			case <-r.Context().Done():
				return
			}
		}
		if analysisStatus != http.StatusOK {
			http.Error(w, "boom", analysisStatus)
			return
		}
		fmt.Fprint(w, `{"score": "-1hard/0soft", "constraints": [{"name": "capacity", "score": "-1hard/0soft"}]}`)
	})
	mux.HandleFunc("/fdo/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "solver exploded", http.StatusInternalServerError)
	})
	mux.HandleFunc("/fdo/indictments/broken", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient(t *testing.T) {
	srv := newSolver(t, http.StatusOK)
	c := solverclient.NewClient(srv.URL, "/fdo/", nil)
	ctx := context.Background()

	t.Run("solution", func(t *testing.T) {
		sol, err := c.Solution(ctx, "7")
		require.NoError(t, err)
		assert.Equal(t, "lunch", sol.Name)
		assert.Equal(t, solution.CourierShifts, sol.Variant)
		require.Len(t, sol.Routes, 1)
		assert.Len(t, sol.Routes[0].Visits, 2)
	})

	t.Run("indictments with numeric ids", func(t *testing.T) {
		inds, err := c.Indictments(ctx, "7")
		require.NoError(t, err)
		require.Len(t, inds, 1)
		assert.EqualValues(t, "1", inds[0].IndictedObjectID)
	})

	t.Run("list is sorted", func(t *testing.T) {
		ids, err := c.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"3", "a", "b"}, ids)
	})

	t.Run("unknown id maps to not found", func(t *testing.T) {
		_, err := c.Solution(ctx, "missing")
		require.Error(t, err)
		assert.True(t, solverclient.IsNotFound(err))
		assert.Equal(t, server.ErrNotFound, server.CodeOf(err))
	})

	t.Run("server error maps to upstream", func(t *testing.T) {
		_, err := c.Solution(ctx, "broken")
		require.Error(t, err)
		assert.Equal(t, server.ErrUpstream, server.CodeOf(err))
		assert.False(t, solverclient.IsNotFound(err))
	})
}

func TestFetchBundle(t *testing.T) {
	ctx := context.Background()

	t.Run("complete", func(t *testing.T) {
		c := solverclient.NewClient(newSolver(t, http.StatusOK).URL, "fdo", nil)
		b, err := c.FetchBundle(ctx, "7")
		require.NoError(t, err)
		assert.Equal(t, "7", b.ID)
		require.NotNil(t, b.Solution)
		assert.Len(t, b.Indictments, 1)
		a := b.Analysis(ctx)
		require.NotNil(t, a)
		assert.Equal(t, "-1hard/0soft", a.Score)
		_, ok := b.Index().Lookup("1")
		assert.True(t, ok)
	})

	t.Run("analysis failure leaves analysis empty", func(t *testing.T) {
		c := solverclient.NewClient(newSolver(t, http.StatusInternalServerError).URL, "fdo", nil)
		b, err := c.FetchBundle(ctx, "7")
		require.NoError(t, err)
		assert.NotNil(t, b.Solution)
		assert.Nil(t, b.Analysis(ctx))
	})

	t.Run("slow analysis does not hold back the bundle", func(t *testing.T) {
		reqCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		c := solverclient.NewClient(newSlowScoreSolver(t, http.StatusOK, 2*time.Second).URL, "fdo", nil)

		start := time.Now()
		b, err := c.FetchBundle(reqCtx, "7")
		require.NoError(t, err)
		assert.Less(t, time.Since(start), time.Second)
		require.NotNil(t, b.Solution)
		assert.Len(t, b.Solution.Routes, 1)

		waitCtx, cancelWait := context.WithTimeout(reqCtx, 50*time.Millisecond)
		defer cancelWait()
		assert.Nil(t, b.Analysis(waitCtx))
	})

	t.Run("solution failure fails the bundle", func(t *testing.T) {
		c := solverclient.NewClient(newSolver(t, http.StatusOK).URL, "fdo", nil)
		_, err := c.FetchBundle(ctx, "broken")
		require.Error(t, err)
		assert.Equal(t, server.ErrUpstream, server.CodeOf(err))
	})
}
