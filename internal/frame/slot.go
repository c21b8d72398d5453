package frame

import "sync/atomic"

// Slot is a single-writer, multi-reader cell holding the latest frame.
// Publish swaps a pointer, so readers always observe a complete frame.
type Slot struct {
	current atomic.Pointer[Frame]
	seq     atomic.Uint64
}

// Publish stamps f with the next generation number and makes it current.
// f must not be modified afterwards.
func (s *Slot) Publish(f *Frame) {
	f.Seq = s.seq.Add(1)
	s.current.Store(f)
}

// Load returns the current frame, or nil before the first publish.
func (s *Slot) Load() *Frame {
	return s.current.Load()
}

// Seq returns the generation of the frame Load returns, 0 before the first
// publish.
func (s *Slot) Seq() uint64 {
	if f := s.current.Load(); f != nil {
		return f.Seq
	}
	return 0
}
