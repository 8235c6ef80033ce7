// Package field validates the editable cells of a takeoff sheet: display
// width limits on text fields and range checks on numeric fields.
//
// Width counting follows the zenkaku/hankaku convention of Japanese forms:
// ASCII and half-width katakana occupy one column, every other character
// occupies two. The limits themselves are deployment constants, adjustable
// through the config package but never invented per call site.
package field

// StringWidth sums the display width of s by codepoint: 1 for ASCII
// (U+0000..U+007F) and half-width katakana (U+FF61..U+FF9F), 2 for
// everything else. Characters outside the basic plane count once, as
// width 2.
func StringWidth(s string) int {
	width := 0
	for _, r := range s {
		if r <= 0x7F || (r >= 0xFF61 && r <= 0xFF9F) {
			width++
		} else {
			width += 2
		}
	}
	return width
}
