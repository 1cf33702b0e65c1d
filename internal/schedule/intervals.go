package schedule

// Interval is one asset's slot: a static display followed by a transition
// to the next asset.
type Interval struct {
	Static     int `json:"static"`
	Transition int `json:"transition"`
}

// Total returns Static + Transition.
func (iv Interval) Total() int {
	return iv.Static + iv.Transition
}

// BuildIntervals partitions a phase of duration seconds among count assets.
//
// Every asset gets the same transition. If count transitions would fill the
// whole phase, the transition is reduced to ⌊(duration − count) / count⌋
// (never below zero) and clamped is true. The remaining time is split
// evenly into static displays; the last one absorbs the division remainder,
// so the intervals always sum to duration.
//
// A count of zero yields no intervals.
func BuildIntervals(duration, count, transition int, transitionsEnabled bool) (intervals []Interval, clamped bool) {
	if count <= 0 {
		return nil, false
	}
	if !transitionsEnabled {
		transition = 0
	}

	requested := transition
	if transition*count >= duration {
		transition = max(0, floorDiv(duration-count, count))
		clamped = transition != requested
	}

	sub := duration - transition*count
	static := floorDiv(sub, count)

	intervals = make([]Interval, count)
	for i := range intervals {
		intervals[i] = Interval{Static: static, Transition: transition}
	}
	intervals[count-1].Static = sub - static*(count-1)

	return intervals, clamped
}
