package clock

import (
	"testing"
	"time"
)

func TestSystem_Now(t *testing.T) {
	now := System().Now()

	if now.Location() != time.UTC {
		t.Errorf("Now() location = %v, want UTC", now.Location())
	}
	if now.Nanosecond()%1000 != 0 {
		t.Errorf("Now() = %v, not truncated to microseconds", now)
	}
}

func TestAfter(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		prev time.Time
		now  time.Time
		want time.Time
	}{
		{"now later than prev", base, base.Add(time.Second), base.Add(time.Second)},
		{"now equal to prev", base, base, base.Add(time.Microsecond)},
		{"now earlier than prev", base, base.Add(-time.Hour), base.Add(time.Microsecond)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := After(tt.prev, tt.now)
			if !got.Equal(tt.want) {
				t.Errorf("After() = %v, want %v", got, tt.want)
			}
			if !got.After(tt.prev) {
				t.Errorf("After() = %v, not later than prev %v", got, tt.prev)
			}
		})
	}
}

func TestFixed(t *testing.T) {
	at := time.Date(2024, 3, 9, 8, 30, 0, 1500, time.FixedZone("X", 3600))
	c := Fixed(at)

	got := c.Now()
	if !got.Equal(Normalize(at)) {
		t.Errorf("Now() = %v, want %v", got, Normalize(at))
	}
	if got.Nanosecond() != 1000 {
		t.Errorf("Now() nanoseconds = %d, want 1000", got.Nanosecond())
	}
}
