package worker

import (
	"context"
	"log"
	"runtime"
	"sync"

	"screen-ocr-tesseract/ocr"
)

// ResultCallback is invoked on OCR completion (from a worker goroutine).
// Callers that need results on a specific goroutine should pass a closure
// that posts back safely.
type ResultCallback func(text string, err error)

// Pool is a fixed-size OCR worker pool with a 1-slot input queue (strict back-pressure).
type Pool struct {
	jobs chan job
	wg   sync.WaitGroup
}

type job struct {
	ctx context.Context
	req ocr.Request
	cb  ResultCallback
}

// New creates a worker pool. Size defaults to NumCPU when size<=0. Queue is 1 slot.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &Pool{jobs: make(chan job, 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				log.Printf("Worker: Starting OCR job, image bytes=%d, lang=%q", len(j.req.Image), j.req.Language)
				text, err := ocr.Recognize(j.ctx, j.req)
				log.Printf("Worker: OCR completed, text length=%d, err=%v", len(text), err)
				j.cb(text, err)
			}
		}()
	}
}

// Submit enqueues an OCR job if the single-slot queue is free. Returns false if dropped.
func (p *Pool) Submit(ctx context.Context, req ocr.Request, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, req: req, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
