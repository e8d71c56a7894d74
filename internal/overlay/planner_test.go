package overlay

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/nevishq/genforge/internal/domain"
)

func TestCanvasSize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		ratio      domain.AspectRatio
		wantWidth  int
		wantHeight int
	}{
		{domain.AspectSquare, 1080, 1080},
		{domain.AspectPortrait, 1080, 1350},
		{domain.AspectLandscape, 1920, 1080},
		{domain.AspectStory, 1080, 1920},
	}

	for _, tc := range testCases {
		w, h := CanvasSize(tc.ratio)
		if w != tc.wantWidth || h != tc.wantHeight {
			t.Errorf("CanvasSize(%q) = %dx%d, want %dx%d", tc.ratio, w, h, tc.wantWidth, tc.wantHeight)
		}
	}
}

func TestOptimalFontSize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		text   string
		width  int
		height int
		want   int
	}{
		{
			name:   "short text draws larger",
			text:   "Sale today",
			width:  1080,
			height: 1080,
			want:   86,
		},
		{
			name:   "medium text keeps the base size",
			text:   "Fresh espresso daily",
			width:  1080,
			height: 1080,
			want:   72,
		},
		{
			name:   "longer text trims the size",
			text:   "Hand roasted beans and fresh pastry every day",
			width:  1080,
			height: 1080,
			want:   57,
		},
		{
			name:   "very long text trims further",
			text:   "Come down to the harbor market this weekend for fresh local produce",
			width:  1080,
			height: 1080,
			want:   50,
		},
		{
			name:   "small canvas clamps to the floor",
			text:   "Sale today",
			width:  320,
			height: 180,
			want:   16,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := optimalFontSize(tc.text, tc.width, tc.height); got != tc.want {
				t.Errorf("optimalFontSize(%q, %d, %d) = %d, want %d",
					tc.text, tc.width, tc.height, got, tc.want)
			}
		})
	}
}

func TestWrapLines(t *testing.T) {
	t.Parallel()

	t.Run("keeps words whole and in order", func(t *testing.T) {
		t.Parallel()

		text := "Grand opening this Saturday with free coffee for everyone"
		lines := wrapLines(text, 20)

		if got := strings.Join(lines, " "); got != text {
			t.Errorf("wrapped lines lost words: %q", got)
		}
		for _, line := range lines {
			if len(line) > 20 {
				t.Errorf("line %q exceeds 20 runes", line)
			}
		}
	})

	t.Run("oversized word gets its own line", func(t *testing.T) {
		t.Parallel()

		lines := wrapLines("try supercalifragilistic deals", 10)
		want := []string{"try", "supercalifragilistic", "deals"}
		if !reflect.DeepEqual(lines, want) {
			t.Errorf("wrapLines = %v, want %v", lines, want)
		}
	})

	t.Run("blank text wraps to nothing", func(t *testing.T) {
		t.Parallel()

		if lines := wrapLines("   ", 10); lines != nil {
			t.Errorf("wrapLines on blank = %v, want nil", lines)
		}
	})
}

func TestBuildPlanGeometry(t *testing.T) {
	t.Parallel()

	// 27 runes on a 1080x1080 canvas: font 72, glyph width 43, at most
	// 20 chars per line.
	text := "Grand opening this Saturday"

	plan, err := BuildPlan(text, 1080, 1080, Options{})
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}

	if plan.FontSize != 72 {
		t.Errorf("FontSize = %d, want 72", plan.FontSize)
	}
	if plan.LineHeight != 86 {
		t.Errorf("LineHeight = %d, want 86", plan.LineHeight)
	}

	wantLines := []string{"Grand opening this", "Saturday"}
	if !reflect.DeepEqual(plan.Lines, wantLines) {
		t.Fatalf("Lines = %v, want %v", plan.Lines, wantLines)
	}

	// Longest line is 18 runes: block width 774, centered at x=153.
	if plan.X != 153 {
		t.Errorf("X = %d, want 153", plan.X)
	}
	if plan.Y != 454 {
		t.Errorf("Y = %d, want 454", plan.Y)
	}
	if plan.Position != domain.OverlayMiddleCenter {
		t.Errorf("Position = %q, want middle-center", plan.Position)
	}
	if plan.BoxPadding != 20 {
		t.Errorf("BoxPadding = %d, want 20", plan.BoxPadding)
	}
	if plan.Text != text {
		t.Errorf("Text = %q, want original text", plan.Text)
	}
}

func TestBuildPlanPositions(t *testing.T) {
	t.Parallel()

	text := "Grand opening this Saturday"

	testCases := []struct {
		position domain.OverlayPosition
		wantY    int
	}{
		{domain.OverlayTopCenter, 180},
		{domain.OverlayMiddleCenter, 454},
		{domain.OverlayBottomCenter, 728},
	}

	for _, tc := range testCases {
		plan, err := BuildPlan(text, 1080, 1080, Options{Position: tc.position})
		if err != nil {
			t.Fatalf("BuildPlan(%q) returned error: %v", tc.position, err)
		}
		if plan.Y != tc.wantY {
			t.Errorf("Y at %q = %d, want %d", tc.position, plan.Y, tc.wantY)
		}
	}
}

func TestBuildPlanColors(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		plan, err := BuildPlan("Sale today", 1080, 1080, Options{})
		if err != nil {
			t.Fatalf("BuildPlan returned error: %v", err)
		}

		wantText := domain.RGBA{R: 255, G: 255, B: 255, A: 255}
		if plan.TextColor != wantText {
			t.Errorf("TextColor = %+v, want %+v", plan.TextColor, wantText)
		}

		wantBox := domain.RGBA{R: 0, G: 0, B: 0, A: 178}
		if plan.BoxColor != wantBox {
			t.Errorf("BoxColor = %+v, want %+v", plan.BoxColor, wantBox)
		}
	})

	t.Run("brand colors with opacity", func(t *testing.T) {
		t.Parallel()

		plan, err := BuildPlan("Sale today", 1080, 1080, Options{
			TextColor:  "#1A2B3C",
			BoxColor:   "#FF5733",
			BoxOpacity: 0.5,
		})
		if err != nil {
			t.Fatalf("BuildPlan returned error: %v", err)
		}

		wantText := domain.RGBA{R: 0x1A, G: 0x2B, B: 0x3C, A: 255}
		if plan.TextColor != wantText {
			t.Errorf("TextColor = %+v, want %+v", plan.TextColor, wantText)
		}

		wantBox := domain.RGBA{R: 255, G: 87, B: 51, A: 127}
		if plan.BoxColor != wantBox {
			t.Errorf("BoxColor = %+v, want %+v", plan.BoxColor, wantBox)
		}
	})

	t.Run("malformed hex rejected", func(t *testing.T) {
		t.Parallel()

		if _, err := BuildPlan("Sale today", 1080, 1080, Options{BoxColor: "#XYZ"}); err == nil {
			t.Error("expected error for malformed hex color")
		}
	})
}

func TestBuildPlanValidation(t *testing.T) {
	t.Parallel()

	if _, err := BuildPlan("  ", 1080, 1080, Options{}); !errors.Is(err, ErrEmptyText) {
		t.Errorf("blank text error = %v, want ErrEmptyText", err)
	}

	if _, err := BuildPlan("Sale today", 0, 1080, Options{}); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestBuildPlanDeterministic(t *testing.T) {
	t.Parallel()

	opts := Options{Position: domain.OverlayBottomCenter, BoxColor: "#112233", BoxOpacity: 0.6}

	first, err := BuildPlan("Fresh espresso daily", 1080, 1350, opts)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}
	second, err := BuildPlan("Fresh espresso daily", 1080, 1350, opts)
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different plans")
	}
}

func TestPlanForVariant(t *testing.T) {
	t.Parallel()

	got, err := PlanForVariant("Sale today", domain.AspectStory, Options{})
	if err != nil {
		t.Fatalf("PlanForVariant returned error: %v", err)
	}

	want, err := BuildPlan("Sale today", 1080, 1920, Options{})
	if err != nil {
		t.Fatalf("BuildPlan returned error: %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Error("PlanForVariant must match BuildPlan at the ratio's canvas size")
	}
}
