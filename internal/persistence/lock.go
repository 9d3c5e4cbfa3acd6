package persistence

import "context"

// Locker serializes read-modify-write cycles on the document.
type Locker interface {
	// Lock blocks until the lock is held or ctx is done. The returned func releases it.
	Lock(ctx context.Context) (func(), error)
}

// MutexLocker is an in-process Locker.
type MutexLocker struct {
	sem chan struct{}
}

// NewMutexLocker returns an unlocked MutexLocker.
func NewMutexLocker() *MutexLocker {
	return &MutexLocker{sem: make(chan struct{}, 1)}
}

func (l *MutexLocker) Lock(ctx context.Context) (func(), error) {
	select {
	case l.sem <- struct{}{}:
		return func() { <-l.sem }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
