package downloader

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"pixivsave/pkg/errors"
	"pixivsave/pkg/logger"
	"pixivsave/pkg/models"
)

// WriteJob is one captured image waiting to be written
type WriteJob struct {
	Image models.CapturedImage
	// Index is the position of the artwork visit that captured the image
	Index int
}

// WriteResult represents the result of a write job
type WriteResult struct {
	Job      WriteJob
	Path     string
	Success  bool
	Error    error
	Duration time.Duration
	Size     int
}

// ImageStorage persists image bodies under a file name
type ImageStorage interface {
	Save(name string, r io.Reader) (string, error)
}

// WorkerPool writes captured images concurrently
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan WriteJob
	resultQueue chan WriteResult
	wg          sync.WaitGroup
	storage     ImageStorage
	logger      logger.Logger

	mu      sync.RWMutex
	stopped bool
}

// NewWorkerPool creates a new write pool
func NewWorkerPool(numWorkers int, storage ImageStorage, log logger.Logger) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan WriteJob, numWorkers*2),
		resultQueue: make(chan WriteResult, numWorkers),
		storage:     storage,
		logger:      log,
	}
}

// Start initializes and starts all workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("Starting write pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop waits for every queued write to finish, then closes Results.
// The results channel must be consumed or Stop blocks.
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		return
	}
	wp.stopped = true
	close(wp.jobQueue)
	wp.mu.Unlock()

	wp.wg.Wait()
	close(wp.resultQueue)

	wp.logger.Debug("Write pool stopped")
}

// Submit queues a job, blocking while the queue is full
func (wp *WorkerPool) Submit(job WriteJob) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.stopped {
		return fmt.Errorf("write pool is stopped")
	}

	wp.jobQueue <- job
	wp.logger.DebugWithFields("Write queued", map[string]interface{}{
		"file":    job.Image.FileName,
		"artwork": job.Image.Artwork,
	})
	return nil
}

// Results returns the result channel for consuming write results
func (wp *WorkerPool) Results() <-chan WriteResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		wp.resultQueue <- wp.processJob(job, id)
	}
}

func (wp *WorkerPool) processJob(job WriteJob, workerID int) WriteResult {
	start := time.Now()
	img := job.Image
	result := WriteResult{Job: job, Size: len(img.Body)}

	path, err := wp.storage.Save(img.FileName, bytes.NewReader(img.Body))
	result.Duration = time.Since(start)
	if err != nil {
		result.Error = errors.Write(img.FileName, err)
		logger.LogImageSaved(img.FileName, img.Artwork, result.Size, result.Error)
		return result
	}

	result.Path = path
	result.Success = true

	wp.logger.DebugWithFields("Worker wrote image", map[string]interface{}{
		"worker_id": workerID,
		"path":      path,
		"duration":  result.Duration,
	})
	logger.LogImageSaved(img.FileName, img.Artwork, result.Size, nil)

	return result
}

// GetQueueSize returns the current number of jobs in the queue
func (wp *WorkerPool) GetQueueSize() int {
	return len(wp.jobQueue)
}

// GetActiveWorkers returns the number of workers
func (wp *WorkerPool) GetActiveWorkers() int {
	return wp.numWorkers
}
