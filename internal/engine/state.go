package engine

// runState holds the per-run mutable bookkeeping that must be reset at
// the start of every RunAutoScheduler invocation: bump counters (spec.md
// §6's MAX_BUMPS_PER_EVENT) and the round-robin slot cursors for the
// Digital/Teardown rotations (spec.md §4.4.4). Core slot selection is
// least-busy and stateless (see slots.go's nextCoreSlot), so it carries
// no cursor here.
type runState struct {
	bumpCount         map[int]int
	digitalSlotIndex  map[string]int
	teardownSlotIndex map[string]int
}

func newRunState() *runState {
	return &runState{
		bumpCount:         make(map[int]int),
		digitalSlotIndex:  make(map[string]int),
		teardownSlotIndex: make(map[string]int),
	}
}

func (s *runState) bumpsFor(eventRefNum int) int {
	return s.bumpCount[eventRefNum]
}

func (s *runState) recordBump(eventRefNum int) {
	s.bumpCount[eventRefNum]++
}
