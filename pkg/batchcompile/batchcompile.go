// Package batchcompile runs independent module compilations concurrently.
// Each compilation stays single-threaded internally — one compilation,
// one label allocator — this package only parallelizes ACROSS modules,
// never within one: a task channel, a fixed worker count, and atomic
// counters instead of a shared mutable result table.
package batchcompile

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/z80toolchain/wasm2z80/pkg/compiler"
	"github.com/z80toolchain/wasm2z80/pkg/wasmir"
)

// Task is one module awaiting compilation, identified by Name for
// reporting (e.g. the source fixture's file name).
type Task struct {
	Name   string
	Module *wasmir.Module
}

// Result pairs a task's name with its outcome. Exactly one of Output and
// Err is set.
type Result struct {
	Name   string
	Output string
	Err    error
}

// WorkerPool distributes Tasks across a fixed number of goroutines, each
// running pkg/compiler.Module to completion before taking the next task.
type WorkerPool struct {
	NumWorkers int

	compiled atomic.Int64
	failed   atomic.Int64
}

// NewWorkerPool creates a pool with the given worker count. A count <= 0
// defaults to runtime.NumCPU().
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{NumWorkers: numWorkers}
}

// Stats returns the number of modules compiled successfully and the
// number that failed, valid only after RunTasks returns.
func (wp *WorkerPool) Stats() (compiled, failed int64) {
	return wp.compiled.Load(), wp.failed.Load()
}

// RunTasks compiles every task and returns one Result per task, in the
// same order tasks were given — order is preserved even though
// compilation itself runs out of order across workers.
func (wp *WorkerPool) RunTasks(tasks []Task) []Result {
	results := make([]Result, len(tasks))

	type indexed struct {
		idx  int
		task Task
	}
	ch := make(chan indexed, len(tasks))
	for i, t := range tasks {
		ch <- indexed{idx: i, task: t}
	}
	close(ch)

	var wg sync.WaitGroup
	for i := 0; i < wp.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range ch {
				out, err := compiler.Module(item.task.Module)
				if err != nil {
					wp.failed.Add(1)
					results[item.idx] = Result{Name: item.task.Name, Err: err}
					continue
				}
				wp.compiled.Add(1)
				results[item.idx] = Result{Name: item.task.Name, Output: out}
			}
		}()
	}
	wg.Wait()

	return results
}
