package physics

import "github.com/san-kum/gravsim/internal/dynamo"

// minChunk is the smallest number of grid points handed to one worker.
const minChunk = 32

// Computer evaluates the field stages. The zero value uses one worker per
// logical CPU.
type Computer struct {
	workers int
}

func NewComputer(workers int) *Computer {
	if workers <= 0 {
		workers = dynamo.DefaultWorkers()
	}
	return &Computer{workers: workers}
}

func (c *Computer) Workers() int { return c.workers }

func (c *Computer) each(points int, fn func(p int)) {
	dynamo.ParallelFor(points, minChunk, c.workers, func(start, end int) {
		for p := start; p < end; p++ {
			fn(p)
		}
	})
}
