package concurrent

import (
	"sync"
)

// WorkerPool runs a fixed number of goroutines over a buffered job queue and collects their results.
// usage: AddJob..., Close, Start, Wait, then drain CollectResults.
type WorkerPool[T JobI, G any] struct {
	numWorkers int
	jobQueue   chan Job[T]
	results    chan G
	wg         sync.WaitGroup
	nextID     int
}

func NewWorkerPool[T JobI, G any](numWorkers, numJobs int) *WorkerPool[T, G] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan Job[T], numJobs),
		results:    make(chan G, numJobs),
	}
}

func (wp *WorkerPool[T, G]) AddJob(item T) {
	wp.jobQueue <- Job[T]{ID: wp.nextID, JobItem: item}
	wp.nextID++
}

// Close signals that no more jobs will be added.
func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

// Start runs every worker with the same job function.
func (wp *WorkerPool[T, G]) Start(jobFunc JobFunc[T, G]) {
	wp.StartPerWorker(func() JobFunc[T, G] {
		return jobFunc
	})
}

// StartPerWorker builds one job function per worker, for job functions that hold state which must not be
// shared between goroutines.
func (wp *WorkerPool[T, G]) StartPerWorker(newJobFunc func() JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(newJobFunc())
	}
}

func (wp *WorkerPool[T, G]) worker(jobFunc JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.results <- jobFunc(job.JobItem)
	}
}

// Wait blocks until every worker is done and closes the results channel.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) CollectResults() <-chan G {
	return wp.results
}
