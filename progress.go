package checkout

import "math"

// ProgressSegments is the number of segments in the checkout progress
// indicator.
const ProgressSegments = 8

// Progress describes the progress indicator for a screen. Segments
// 1..Filled are rendered filled; the fractional QR-funding position fills
// four segments like the screen it subdivides.
type Progress struct {
	// Position is the screen number, including the fractional 4.5.
	Position float64

	// Filled is floor(Position), the count of filled segments.
	Filled int

	// ShowBack reports whether a back affordance is rendered. The
	// completed screen has none.
	ShowBack bool
}

// ProgressFor computes the progress indicator state for a screen.
func ProgressFor(s Screen) Progress {
	n := s.Number()
	return Progress{
		Position: n,
		Filled:   int(math.Floor(n)),
		ShowBack: s != ScreenCompleted,
	}
}
