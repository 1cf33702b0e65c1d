package schedule

// Slide is one asset's place in the day, ready for serialization.
type Slide struct {
	Phase      Phase  `json:"phase"`
	Index      int    `json:"index"`
	File       string `json:"file"`
	Next       string `json:"next"`
	Start      int    `json:"start"` // seconds since local midnight
	Static     int    `json:"static"`
	Transition int    `json:"transition"`
}

// Slides flattens the schedule into display order starting at sunrise.
// Each slide's Next is the following asset in the same phase, or the first
// asset of the next phase that has any, wrapping from night to sunrise.
func (s *Schedule) Slides() []Slide {
	var slides []Slide
	offset := s.Instants.Sunrise
	for _, p := range Phases {
		for i, iv := range s.Timeline[p] {
			slides = append(slides, Slide{
				Phase:      p,
				Index:      i,
				File:       s.Assets[p][i],
				Next:       s.NextAsset(p, i),
				Start:      mod(offset, DayLength),
				Static:     iv.Static,
				Transition: iv.Transition,
			})
			offset += iv.Total()
		}
	}
	return slides
}

// NextAsset returns the transition target for asset i of phase p.
func (s *Schedule) NextAsset(p Phase, i int) string {
	if i+1 < len(s.Assets[p]) {
		return s.Assets[p][i+1]
	}
	for q := p.Next(); ; q = q.Next() {
		if len(s.Assets[q]) > 0 {
			return s.Assets[q][0]
		}
		if q == p {
			return ""
		}
	}
}

// WallpaperAt returns the asset on screen at secondsOfDay (local). During a
// transition the outgoing asset is reported. Times before sunrise belong to
// the previous night.
func (s *Schedule) WallpaperAt(secondsOfDay int) string {
	offset := mod(secondsOfDay-s.Instants.Sunrise, DayLength)
	elapsed := 0
	var last string
	for _, p := range Phases {
		for i, iv := range s.Timeline[p] {
			last = s.Assets[p][i]
			elapsed += iv.Total()
			if offset < elapsed {
				return last
			}
		}
	}
	return last
}

// StartTime returns the sunrise anchor as hour and minute.
func (s *Schedule) StartTime() (hour, minute int) {
	start := mod(s.Instants.Sunrise, DayLength)
	return start / 3600, (start % 3600) / 60
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
