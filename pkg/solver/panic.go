package solver

import (
	"github.com/jihwankim/satuner/pkg/tuner"
)

// recoverWorkerPanic runs fn and turns a panic inside it into a returned
// *tuner.ErrWorkerPanic instead of crashing the process (spec §7 "Worker
// panic: fatal, propagated to the driver"). Go does not let a caller
// recover a panic that occurred in another goroutine, so each worker
// goroutine must recover its own; wrapping the worker body this way lets
// every fan-out report it through errgroup.Group.Go's ordinary error path,
// which keeps only the first error (first panic wins, same as a plain
// sync.Once guard would).
func recoverWorkerPanic(workerID int, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &tuner.ErrWorkerPanic{WorkerID: workerID, Recovered: r}
		}
	}()
	fn()
	return nil
}
