// Package overlay computes text-overlay plans for finished creatives:
// how large to draw the embedded text, where the block sits on the
// canvas, how the lines wrap, and the colors of the text and its
// backing box. The package is pure computation over estimated glyph
// metrics. It never decodes or rasterizes an image; the delivery layer
// owns pixels and exact font measurement.
package overlay
