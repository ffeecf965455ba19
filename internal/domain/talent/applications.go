package talent

// OfferStatus labels the development offers attached to an application.
// META supports candidates from an ethnic-minority background, DELTA
// candidates with a long-term health condition; an application can carry
// both. Empty when neither applies.
func OfferStatus(meta bool, delta bool) string {
	switch {
	case meta && delta:
		return "META and DELTA"
	case delta:
		return "DELTA"
	case meta:
		return "META"
	default:
		return ""
	}
}
