package domain

// OverlayPosition names where on a creative an overlay's text block sits.
type OverlayPosition string

// Overlay positions the planner can produce.
const (
	OverlayTopCenter    OverlayPosition = "top-center"
	OverlayMiddleCenter OverlayPosition = "middle-center"
	OverlayBottomCenter OverlayPosition = "bottom-center"
)

// RGBA is a color with an alpha channel, each component 0-255.
type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// OverlayPlan tells the delivery layer how to rasterize literal text onto
// a finished creative: the text itself, where it sits, how large to draw
// it, and the colors of the text and its backing box. The engine computes
// plans but never touches pixels.
type OverlayPlan struct {
	Text       string          `json:"text"`
	Position   OverlayPosition `json:"position"`
	FontSize   int             `json:"font_size"`
	LineHeight int             `json:"line_height"`
	Lines      []string        `json:"lines"`
	TextColor  RGBA            `json:"text_color"`
	BoxColor   RGBA            `json:"box_color"`
	BoxPadding int             `json:"box_padding"`
	X          int             `json:"x"`
	Y          int             `json:"y"`
}
