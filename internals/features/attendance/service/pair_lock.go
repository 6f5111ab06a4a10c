// file: internals/features/attendance/service/pair_lock.go
package service

import (
	"sync"

	"github.com/google/uuid"
)

// pairLock menserialkan penulisan untuk pasangan (event, member) yang
// sama tanpa memblokir pasangan lain. Entry dibuang lagi begitu tidak
// ada yang menunggu supaya map tidak tumbuh seiring jumlah pasangan.
type pairLock struct {
	mu   sync.Mutex
	held map[string]*pairLockEntry
}

type pairLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newPairLock() *pairLock {
	return &pairLock{held: make(map[string]*pairLockEntry)}
}

// Lock mengunci pasangan dan mengembalikan fungsi pelepasnya.
func (l *pairLock) Lock(eventID, memberID uuid.UUID) func() {
	key := eventID.String() + "/" + memberID.String()

	l.mu.Lock()
	e, ok := l.held[key]
	if !ok {
		e = &pairLockEntry{}
		l.held[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.held, key)
		}
		l.mu.Unlock()
	}
}
