package engine

import (
	"sort"
	"time"
)

// DedupGap is the minimum separation for two scans to count as distinct
// events. Badge readers debounce poorly and people double-tap; anything
// closer than this is treated as the same punch.
const DedupGap = 15 * time.Minute

// DaySequence is the normalized scan sequence for one employee on one
// logical day. Roles are inferred by position: even index = entry, odd
// index = exit. An odd-length sequence ends with an open entry (the
// employee is still clocked in).
type DaySequence struct {
	Deduped []time.Time
	Entries []time.Time
	Exits   []time.Time
}

// OpenEntry returns the trailing entry that has no matching exit yet.
func (s DaySequence) OpenEntry() (time.Time, bool) {
	if len(s.Deduped)%2 == 1 {
		return s.Deduped[len(s.Deduped)-1], true
	}
	return time.Time{}, false
}

// Sequencer turns raw scan instants into an entry/exit sequence. The
// readers installed today do not report direction, so the default
// implementation infers roles by alternating parity. A device that
// reports true direction can replace this without touching matching or
// classification.
type Sequencer interface {
	Sequence(scans []time.Time) DaySequence
}

// ParitySequencer is the default direction-less heuristic.
type ParitySequencer struct{}

func (ParitySequencer) Sequence(scans []time.Time) DaySequence {
	return Normalize(scans)
}

// Normalize sorts the scans, collapses bursts closer than DedupGap to
// the last kept scan, and assigns alternating entry/exit roles. Empty
// input yields an empty sequence; there are no error conditions.
func Normalize(scans []time.Time) DaySequence {
	if len(scans) == 0 {
		return DaySequence{}
	}

	sorted := make([]time.Time, len(scans))
	copy(sorted, scans)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	kept := make([]time.Time, 0, len(sorted))
	kept = append(kept, sorted[0])
	for _, t := range sorted[1:] {
		if t.Sub(kept[len(kept)-1]) >= DedupGap {
			kept = append(kept, t)
		}
	}

	seq := DaySequence{Deduped: kept}
	for i, t := range kept {
		if i%2 == 0 {
			seq.Entries = append(seq.Entries, t)
		} else {
			seq.Exits = append(seq.Exits, t)
		}
	}
	return seq
}
