package layout

import (
	"strings"
	"testing"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "0:00"},
		{-5, "0:00"},
		{59, "0:59"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3725, "1:02:05"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.secs); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) {
		t.Error("expected too small below min width")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("expected min size to fit")
	}
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Physics Mock Test", "12:34", 100)
	for _, want := range []string{"Learnex", "Physics Mock Test", "12:34"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestRenderFooter_DropsHintsThatDoNotFit(t *testing.T) {
	hints := []KeyHint{
		{Key: "←→", Description: "Navigate"},
		{Key: "Tab", Description: "Palette"},
		{Key: "S", Description: "Submit the test and see results"},
	}
	wide := RenderFooter(hints, 120)
	for _, want := range []string{"Navigate", "Palette", "Submit the test"} {
		if !strings.Contains(wide, want) {
			t.Errorf("wide footer missing %q", want)
		}
	}

	narrow := RenderFooter(hints, 40)
	if !strings.Contains(narrow, "Navigate") {
		t.Error("narrow footer should keep the first hint")
	}
	if strings.Contains(narrow, "Submit the test") {
		t.Error("narrow footer should drop hints past the width")
	}
}

func TestRenderFrame_FillsHeight(t *testing.T) {
	frame := RenderFrame("head", "body", "foot", 20, 10)
	if got := strings.Count(frame, "\n") + 1; got != 10 {
		t.Errorf("frame height = %d, want 10", got)
	}
}
