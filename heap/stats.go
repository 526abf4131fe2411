package heap

// Stats carries the heap's allocation accounting: per-type allocation and
// finalization counters, the live-object census, and pool traffic. The
// counters are maintained unconditionally (they are a handful of integer
// bumps) and drive both the teardown leak report and the test suite's
// finalize-exactly-once assertions. Reading them has no effect on any
// memory contract.
type Stats struct {
	Allocs    [typeCount]uint64
	Finalizes [typeCount]uint64

	Live     int
	PeakLive int

	Autoreleases uint64
	PoolPushes   uint64
	PoolPops     uint64
}

func (s *Stats) trackAlloc(t Type) {
	s.Allocs[t]++
	s.Live++
	if s.Live > s.PeakLive {
		s.PeakLive = s.Live
	}
}

func (s *Stats) trackFree(t Type) {
	s.Finalizes[t]++
	s.Live--
}

// untrack backs an allocation out of the accounting, immediately after
// the tracked alloc. Used for the singletons, which are constructed
// through the ordinary path during heap init but are not part of the
// allocated population.
func (s *Stats) untrack(t Type) {
	s.Allocs[t]--
	s.Live--
	if s.PeakLive > s.Live {
		s.PeakLive = s.Live
	}
}

// AllocCount returns the number of allocations of the given type.
func (s Stats) AllocCount(t Type) uint64 { return s.Allocs[t] }

// FinalizeCount returns the number of deep-finalizations of the given type.
func (s Stats) FinalizeCount(t Type) uint64 { return s.Finalizes[t] }
