package schedule

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parsing %q: %v", s, err)
	}
	return d.Add(12 * time.Hour)
}

func fullSchedule(t *testing.T) *Schedule {
	t.Helper()
	s, err := Build(nullIsland, themeAssets(AssetCounts{5, 5, 5, 5, 5}), DefaultOptions())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return s
}

func TestSchedule_Slides(t *testing.T) {
	slides := fullSchedule(t).Slides()

	if len(slides) != 25 {
		t.Fatalf("len(Slides()) = %d, want 25", len(slides))
	}
	if slides[0].Start != nullIsland.Sunrise || slides[0].File != "sunrise-0.jpg" {
		t.Errorf("first slide = %+v, want sunrise-0.jpg at sunrise", slides[0])
	}

	tests := []struct {
		index    int
		wantNext string
	}{
		{0, "sunrise-1.jpg"},
		{4, "noon-0.jpg"},
		{19, "night-0.jpg"},
		{24, "sunrise-0.jpg"},
	}
	for _, tt := range tests {
		if got := slides[tt.index].Next; got != tt.wantNext {
			t.Errorf("slides[%d].Next = %q, want %q", tt.index, got, tt.wantNext)
		}
	}

	for i := 1; i < len(slides); i++ {
		prev := slides[i-1]
		want := (prev.Start + prev.Static + prev.Transition) % DayLength
		if slides[i].Start != want {
			t.Fatalf("slides[%d].Start = %d, want %d", i, slides[i].Start, want)
		}
	}
}

func TestSchedule_NextAssetSkipsEmptyPhases(t *testing.T) {
	s, err := Build(nullIsland, themeAssets(AssetCounts{0, 0, 2, 0, 1}), DefaultOptions())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if got := s.NextAsset(PhaseDay, 1); got != "night-0.jpg" {
		t.Errorf("NextAsset(day, 1) = %q, want night-0.jpg", got)
	}
	if got := s.NextAsset(PhaseNight, 0); got != "day-0.jpg" {
		t.Errorf("NextAsset(night, 0) = %q, want day-0.jpg", got)
	}
}

func TestSchedule_NextAssetSinglePhase(t *testing.T) {
	s, err := Build(nullIsland, themeAssets(AssetCounts{0, 0, 1, 0, 0}), DefaultOptions())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := s.NextAsset(PhaseDay, 0); got != "day-0.jpg" {
		t.Errorf("NextAsset(day, 0) = %q, want day-0.jpg", got)
	}
}

func TestSchedule_WallpaperAt(t *testing.T) {
	s := fullSchedule(t)

	tests := []struct {
		name    string
		seconds int
		want    string
	}{
		{"at sunrise", 21660, "sunrise-0.jpg"},
		{"end of first slot", 21660 + 4319, "sunrise-0.jpg"},
		{"second slot", 21660 + 4320, "sunrise-1.jpg"},
		{"first day slot", 21660 + 21600 + 1800, "day-0.jpg"},
		{"midnight belongs to night", 0, "night-2.jpg"},
		{"just before sunrise", 21659, "night-4.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.WallpaperAt(tt.seconds); got != tt.want {
				t.Errorf("WallpaperAt(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestSchedule_StartTime(t *testing.T) {
	h, m := fullSchedule(t).StartTime()
	if h != 6 || m != 1 {
		t.Errorf("StartTime() = %d:%02d, want 6:01", h, m)
	}
}
