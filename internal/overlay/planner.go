package overlay

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nevishq/genforge/internal/domain"
)

// Defaults for plans that do not override them: white text on a
// translucent black box, centered, with a 20px pad around the block.
const (
	defaultTextColor  = "#FFFFFF"
	defaultBoxColor   = "#000000"
	defaultBoxOpacity = 0.7
	boxPadding        = 20
)

// Estimated glyph metrics. Plan geometry only needs to be close enough
// for the rasterizer to center and pad the block; an average glyph is
// about 3/5 of the font size wide and a line 6/5 of it tall.
const (
	charWidthNum  = 3
	charWidthDen  = 5
	lineHeightNum = 6
	lineHeightDen = 5
)

// maxLineWidthRatio caps the text block at 8/10 of the canvas width.
const (
	maxLineWidthNum = 8
	maxLineWidthDen = 10
)

// ErrEmptyText is returned when a plan is requested for blank text.
var ErrEmptyText = errors.New("overlay text cannot be empty")

// Options adjust a plan away from the defaults. Zero values keep the
// default position, colors, and opacity.
type Options struct {
	Position   domain.OverlayPosition
	TextColor  string
	BoxColor   string
	BoxOpacity float64
}

// CanvasSize returns the nominal render dimensions for an aspect ratio,
// at the 1080px social-feed base the image providers target.
func CanvasSize(r domain.AspectRatio) (int, int) {
	switch r {
	case domain.AspectPortrait:
		return 1080, 1350
	case domain.AspectLandscape:
		return 1920, 1080
	case domain.AspectStory:
		return 1080, 1920
	default:
		return 1080, 1080
	}
}

// BuildPlan computes the overlay plan for one creative: font size from
// the canvas dimensions and text length, greedy line wrapping inside
// the block width, the block position, and resolved colors. The same
// inputs always produce the same plan.
func BuildPlan(text string, width, height int, opts Options) (*domain.OverlayPlan, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas dimensions must be positive, got %dx%d", width, height)
	}

	position := opts.Position
	if position == "" {
		position = domain.OverlayMiddleCenter
	}

	textHex := opts.TextColor
	if textHex == "" {
		textHex = defaultTextColor
	}
	boxHex := opts.BoxColor
	if boxHex == "" {
		boxHex = defaultBoxColor
	}
	opacity := opts.BoxOpacity
	if opacity <= 0 {
		opacity = defaultBoxOpacity
	}
	if opacity > 1 {
		opacity = 1
	}

	textColor, err := parseHex(textHex, 1)
	if err != nil {
		return nil, fmt.Errorf("text color: %w", err)
	}
	boxColor, err := parseHex(boxHex, opacity)
	if err != nil {
		return nil, fmt.Errorf("box color: %w", err)
	}

	fontSize := optimalFontSize(text, width, height)
	charWidth := fontSize * charWidthNum / charWidthDen
	lineHeight := fontSize * lineHeightNum / lineHeightDen

	maxChars := (width * maxLineWidthNum / maxLineWidthDen) / charWidth
	if maxChars < 1 {
		maxChars = 1
	}
	lines := wrapLines(text, maxChars)

	longest := 0
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > longest {
			longest = n
		}
	}
	textWidth := longest * charWidth
	textHeight := len(lines) * lineHeight

	x := (width - textWidth) / 2
	var y int
	switch position {
	case domain.OverlayTopCenter:
		y = height / 6
	case domain.OverlayBottomCenter:
		y = height - height/6 - textHeight
	default:
		y = (height - textHeight) / 2
	}

	return &domain.OverlayPlan{
		Text:       text,
		Position:   position,
		FontSize:   fontSize,
		LineHeight: lineHeight,
		Lines:      lines,
		TextColor:  textColor,
		BoxColor:   boxColor,
		BoxPadding: boxPadding,
		X:          x,
		Y:          y,
	}, nil
}

// PlanForVariant builds a plan sized for a variant's aspect ratio.
func PlanForVariant(text string, ratio domain.AspectRatio, opts Options) (*domain.OverlayPlan, error) {
	width, height := CanvasSize(ratio)
	return BuildPlan(text, width, height, opts)
}

// optimalFontSize scales the font with the canvas and trims it for
// longer text. Sizes stay inside max(16, width/50) and
// min(width/8, height/8).
func optimalFontSize(text string, width, height int) int {
	base := width
	if height < width {
		base = height
	}
	base /= 15

	length := utf8.RuneCountInString(text)
	switch {
	case length > 50:
		base = base * 7 / 10
	case length > 30:
		base = base * 8 / 10
	case length < 15:
		base = base * 12 / 10
	}

	minSize := width / 50
	if minSize < 16 {
		minSize = 16
	}
	maxSize := width / 8
	if height/8 < maxSize {
		maxSize = height / 8
	}

	if base < minSize {
		return minSize
	}
	if base > maxSize {
		return maxSize
	}
	return base
}

// wrapLines greedily packs whole words into lines of at most maxChars
// runes. A single word longer than maxChars gets its own line rather
// than being split.
func wrapLines(text string, maxChars int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if utf8.RuneCountInString(candidate) <= maxChars {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// parseHex converts a #RRGGBB color to RGBA, applying opacity to the
// alpha channel.
func parseHex(hexColor string, opacity float64) (domain.RGBA, error) {
	s := strings.TrimPrefix(hexColor, "#")
	if len(s) != 6 {
		return domain.RGBA{}, fmt.Errorf("malformed hex color %q", hexColor)
	}

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return domain.RGBA{}, fmt.Errorf("malformed hex color %q: %v", hexColor, err)
	}

	return domain.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: uint8(255 * opacity),
	}, nil
}
