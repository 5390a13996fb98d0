package components

// Direction is a discrete steering decision.
// Values double as one-hot indices for the classifier outputs.
type Direction uint8

const (
	Straight Direction = iota
	Left
	Right
)

// NumDirections is the number of steering classes.
const NumDirections = 3

// String returns the display name for a Direction.
func (d Direction) String() string {
	names := DirectionNames()
	if int(d) < len(names) {
		return names[d]
	}
	return "Unknown"
}

// Valid reports whether d is one of the defined directions.
func (d Direction) Valid() bool {
	return int(d) < NumDirections
}

// DirectionNames returns the display names for all directions.
// The order matches the Direction constants.
func DirectionNames() []string {
	return []string{"Straight", "Left", "Right"}
}
