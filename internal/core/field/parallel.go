package field

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"chosenoffset.com/sdflight/internal/core/sdf"
)

// rowsPerTask bounds how many grid rows a single pool task evaluates.
const rowsPerTask = 16

// BuildParallel is Build with grid rows spread across a worker pool. Grid
// points are independent, so each task owns a disjoint band of rows and the
// result is identical to Build. workers <= 1 builds on the calling goroutine.
func BuildParallel(scene *sdf.Scene, width, height, precision float32, workers int) (*Cache, error) {
	if workers <= 1 {
		return Build(scene, width, height, precision)
	}
	c, err := newCache(scene, width, height, precision)
	if err != nil {
		return nil, err
	}

	bands := (c.gridH + rowsPerTask - 1) / rowsPerTask
	pool := worker.NewDynamicWorkerPool(workers, bands, time.Second)
	defer pool.Stop()

	// The pool's own Wait is tied to worker idle-exit; a WaitGroup gives a
	// barrier for exactly the tasks submitted here.
	var wg sync.WaitGroup
	for id := 0; id < bands; id++ {
		y0 := id * rowsPerTask
		y1 := min(y0+rowsPerTask, c.gridH)
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				c.fillRows(y0, y1)
				return nil, nil
			},
		})
	}
	wg.Wait()
	return c, nil
}
