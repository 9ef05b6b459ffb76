package concurrent_test

import (
	"fmt"
	"sort"
	"testing"

	"lintang/routeviz/pkg/concurrent"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	wp := concurrent.NewWorkerPool[concurrent.RenderJob, concurrent.RenderResult](3, len(ids))
	for i, id := range ids {
		wp.AddJob(concurrent.RenderJob{Index: i, SolutionID: id})
	}
	wp.Close()

	wp.Start(func(job concurrent.RenderJob) concurrent.RenderResult {
		return concurrent.RenderResult{
			Index:      job.Index,
			SolutionID: job.SolutionID,
			Output:     fmt.Sprintf("%s.geojson", job.SolutionID),
		}
	})
	wp.Wait()

	var got []concurrent.RenderResult
	for res := range wp.CollectResults() {
		got = append(got, res)
	}
	sort.Slice(got, func(i, j int) bool { return got[i].Index < got[j].Index })

	assert.Len(t, got, len(ids))
	for i, res := range got {
		assert.Equal(t, i, res.Index)
		assert.Equal(t, ids[i]+".geojson", res.Output)
	}
}

func TestWorkerPoolNoJobs(t *testing.T) {
	wp := concurrent.NewWorkerPool[concurrent.RenderJob, concurrent.RenderResult](0, 0)
	wp.Close()
	wp.Start(func(job concurrent.RenderJob) concurrent.RenderResult { return concurrent.RenderResult{} })
	wp.Wait()
	_, open := <-wp.CollectResults()
	assert.False(t, open)
}
