package component

// HitResponse configures the i-frame window granted after a non-lethal hit.
type HitResponse struct {
	IFrames     float64
	FlashCycles int
}

var HitResponseComponent = NewComponent[HitResponse]()
