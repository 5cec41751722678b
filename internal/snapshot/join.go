package snapshot

import (
	"context"

	"github.com/sourcegraph/conc/pool"
)

// JoinAll runs every task concurrently and waits for all of them. If any
// task fails, the context handed to the others is cancelled and the first
// error is returned; callers must then discard whatever the successful
// tasks produced.
func JoinAll(ctx context.Context, tasks ...func(context.Context) error) error {
	p := pool.New().
		WithErrors().
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	for _, task := range tasks {
		p.Go(task)
	}
	return p.Wait()
}
