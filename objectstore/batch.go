// Copyright © 2026 The Space Place Authors

// This file is part of Space Place <https://github.com/Spaces-Place/space-place-space>.

// Space Place is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License
// as published by the Free Software Foundation,
// either version 3 of the License, or (at your option)
// any later version.

// Space Place is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public License
// along with Space Place.  If not, see <http://www.gnu.org/licenses/>.

package objectstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Upload is one object of a batch.
type Upload struct {
	Key  string
	Data []byte
}

// limiter bounds the number of running uploads.
type limiter struct {
	slots chan struct{}
	mu    sync.Mutex
	cond  *sync.Cond
	count int
}

func newLimiter(limit int) *limiter {
	if limit < 1 {
		limit = 1
	}
	l := &limiter{
		slots: make(chan struct{}, limit),
	}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Begin waits for a free slot. It returns false once ctx is done.
func (l *limiter) Begin(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case l.slots <- struct{}{}:
		l.mu.Lock()
		defer l.mu.Unlock()
		l.count++
		return true
	case <-ctx.Done():
		return false
	}
}

func (l *limiter) End() {
	<-l.slots
	l.mu.Lock()
	defer l.mu.Unlock()
	l.count--
	if l.count == 0 {
		l.cond.Broadcast()
	}
}

// Join waits until no upload is running.
func (l *limiter) Join() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for l.count > 0 {
		l.cond.Wait()
	}
}

// PutAll stores uploads with at most parallel concurrent Put calls. The first
// failure cancels uploads that have not started yet. Objects stored before the
// failure are left in place.
func PutAll(ctx context.Context, store Store, uploads []Upload, parallel int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lim := newLimiter(parallel)
	errs := make([]error, len(uploads))
	started := 0

	for i, u := range uploads {
		if !lim.Begin(ctx) {
			break
		}
		started++
		go func() {
			defer lim.End()
			if err := store.Put(ctx, u.Key, u.Data); err != nil {
				errs[i] = fmt.Errorf("While uploading %s: %w", u.Key, err)
				cancel()
			}
		}()
	}
	lim.Join()

	if err := errors.Join(errs...); err != nil {
		return err
	}
	if started < len(uploads) {
		return fmt.Errorf("While uploading: %w", ctx.Err())
	}
	return nil
}
