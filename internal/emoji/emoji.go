package emoji

// https://unicode.org/emoji/charts/full-emoji-list.html
const (
	Star     = "🌟"
	SunFace  = "🌞"
	FullMoon = "🌕"
	HalfMoon = "🌓"
	Eclipse  = "🌑"

	Check = "✅"
	Cross = "❌"
)

// MapStatus marks a run as succeeded or failed.
func MapStatus(ok bool) string {
	if ok {
		return Check
	}
	return Cross
}

// MapAccuracy grades a classification accuracy in [0,1].
func MapAccuracy(accuracy float64) string {
	switch {
	case accuracy >= 0.95:
		return Star
	case accuracy >= 0.9:
		return SunFace
	case accuracy >= 0.75:
		return FullMoon
	case accuracy >= 0.5:
		return HalfMoon
	default:
		return Eclipse
	}
}
