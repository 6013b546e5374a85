package core

import (
	"testing"
	"time"
)

func TestClock(t *testing.T) {
	base := time.Unix(1000, 0)
	now := base
	c := &Clock{now: func() time.Time { return now }}

	c.Update()
	if have := c.Elapsed(); have != 0 {
		t.Fatalf("Clock.Elapsed before Start:\nhave %v\nwant 0", have)
	}

	c.Start()
	now = base.Add(1500 * time.Millisecond)
	c.Update()
	if have, want := c.Elapsed(), 1.5; have != want {
		t.Fatalf("Clock.Elapsed:\nhave %v\nwant %v", have, want)
	}

	c.Stop()
	now = base.Add(5 * time.Second)
	c.Update()
	if have, want := c.Elapsed(), 1.5; have != want {
		t.Fatalf("Clock.Elapsed after Stop:\nhave %v\nwant %v", have, want)
	}
}

func TestFrameMetrics(t *testing.T) {
	m := NewFrameMetrics()
	// 62.5ms frames: the 17th crosses one second, the 30th closes the average window.
	for i := 0; i < int(AVG_COUNT); i++ {
		m.Update(0.0625)
	}
	fps, avg := m.Frame()
	if fps != 16 {
		t.Fatalf("FrameMetrics.FPS:\nhave %v\nwant 16", fps)
	}
	if avg != 62.5 {
		t.Fatalf("FrameMetrics.FrameTime:\nhave %v\nwant 62.5", avg)
	}
}

func TestParseLogLevel(t *testing.T) {
	for _, x := range [...]struct {
		name string
		want LogLevel
	}{
		{"debug", DebugLevel},
		{" Warn ", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"fatal", FatalLevel},
		{"info", InfoLevel},
		{"", InfoLevel},
		{"verbose", InfoLevel},
	} {
		if have := ParseLogLevel(x.name); have != x.want {
			t.Fatalf("ParseLogLevel(%q):\nhave %v\nwant %v", x.name, have, x.want)
		}
	}
}
