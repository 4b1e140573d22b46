package concurrent

import (
	"sort"
	"sync/atomic"
	"testing"

	"github.com/lintang-b-s/roadroute/pkg/datastructure"
	"github.com/stretchr/testify/assert"
)

func TestWorkerPool(t *testing.T) {
	numJobs := 100
	workers := NewWorkerPool[RouteJobItem, int](4, numJobs)
	for i := 0; i < numJobs; i++ {
		workers.AddJob(NewRouteJobItem(i, datastructure.NewPoint(float64(i), 0, 0), datastructure.NewPoint(0, 0, 0)))
	}
	workers.Close()
	workers.Start(func(job RouteJobItem) int {
		return job.Index * 2
	})
	workers.Wait()

	got := make([]int, 0, numJobs)
	for res := range workers.CollectResults() {
		got = append(got, res)
	}
	sort.Ints(got)

	assert.Len(t, got, numJobs)
	for i, v := range got {
		assert.Equal(t, i*2, v)
	}
}

func TestWorkerPoolStartPerWorker(t *testing.T) {
	var created atomic.Int32
	workers := NewWorkerPool[[]datastructure.LinkID, int](3, 10)
	for i := 0; i < 10; i++ {
		workers.AddJob([]datastructure.LinkID{1, 2, datastructure.LinkID(i)})
	}
	workers.Close()
	workers.StartPerWorker(func() JobFunc[[]datastructure.LinkID, int] {
		created.Add(1)
		return func(job []datastructure.LinkID) int {
			return len(job)
		}
	})
	workers.Wait()

	total := 0
	for res := range workers.CollectResults() {
		total += res
	}
	assert.Equal(t, int32(3), created.Load())
	assert.Equal(t, 30, total)
}
