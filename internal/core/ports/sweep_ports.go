package ports

import "context"

type Sweeper interface {
	// SweepOnce deletes expired polls and returns how many were removed.
	SweepOnce(ctx context.Context) (int64, error)
	// Run sweeps immediately and then on every tick until ctx is done.
	Run(ctx context.Context)
}
