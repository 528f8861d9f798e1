package component

// TTL is a seconds-based time-to-live. The TTL system destroys the entity
// once Remaining reaches zero.
type TTL struct {
	Remaining float64
}

var TTLComponent = NewComponent[TTL]()
