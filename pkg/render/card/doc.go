// Package card composes one business card into an ordered list of draw
// operations.
//
// # Paint order
//
// [Compositor.Compose] emits operations bottom to top:
//
//  1. shadow
//  2. background fill, then the faded background logo or the gradient
//     fallback, then a corner logo
//  3. top rule
//  4. name
//  5. identity (professional, else title), one wrapped block per line
//  6. credential chip (CRM, else company)
//  7. contact lines (T:, E:, W:)
//  8. QR code with its frame
//  9. border
//  10. crop marks
//
// Every text section moves the vertical cursor only by the space it uses, so
// a card with fewer fields is more compact rather than gappy.
//
// # Text measurement
//
// Line breaking uses a fixed estimate of 0.6 x font size per character.
// Glyph rendering is left to the sink.
//
// # Warnings
//
// Images come from an [Assets] provider. A failed load never fails the card:
// the layer is skipped and a [Warning] is returned alongside the operations.
// Text that does not fit above the bottom padding is cut with "..." and also
// reported as a warning.
package card
