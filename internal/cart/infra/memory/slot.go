package memory

import (
	"context"
	"sync"
)

// Slot keeps the serialized cart in process memory. It is shared-safe and
// can be told to fail, which makes it the default double in tests.
type Slot struct {
	mu     sync.Mutex
	blob   string
	ok     bool
	getErr error
	setErr error
	writes int
}

func NewSlot() *Slot {
	return &Slot{}
}

// NewSlotWith returns a slot that already holds blob.
func NewSlotWith(blob string) *Slot {
	return &Slot{blob: blob, ok: true}
}

func (s *Slot) Get(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	return s.blob, s.ok, nil
}

func (s *Slot) Set(ctx context.Context, blob string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.blob = blob
	s.ok = true
	s.writes++
	return nil
}

func (s *Slot) FailGet(err error) {
	s.mu.Lock()
	s.getErr = err
	s.mu.Unlock()
}

func (s *Slot) FailSet(err error) {
	s.mu.Lock()
	s.setErr = err
	s.mu.Unlock()
}

// Blob returns the stored value without going through Get.
func (s *Slot) Blob() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blob
}

func (s *Slot) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
