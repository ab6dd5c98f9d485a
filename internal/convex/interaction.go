package convex

// InteractionType is a bit-flag set callers use to pre-filter candidate
// pairs before running any query. The geometry core itself never inspects
// it; it only travels on shapes for the embedding's benefit.
type InteractionType uint8

const (
	InteractionCollision InteractionType = 1 << iota // solid contact
	InteractionSensor                                // overlap reporting only
	InteractionFluid                                 // buoyancy regions

	InteractionAny = InteractionCollision | InteractionSensor | InteractionFluid
)

// Matches reports whether the two flag sets share any bit.
func (t InteractionType) Matches(other InteractionType) bool {
	return t&other != 0
}

func (t InteractionType) String() string {
	switch t {
	case InteractionCollision:
		return "collision"
	case InteractionSensor:
		return "sensor"
	case InteractionFluid:
		return "fluid"
	case InteractionAny:
		return "any"
	}
	return "mixed"
}
