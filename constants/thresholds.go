package constants

// Tier acceptance bars on the 0..1 quality score.
const (
	HighQualityScore = 0.8 // structured tier accepted at or above this
	AIAcceptScore    = 0.6 // AI tier accepted at or above this
)

// Product resolver floors. The AI tier runs a stricter resolver since its
// product guesses are free text that was already paraphrased once.
const (
	SynonymMatchThreshold   = 0.6
	AISynonymMatchThreshold = 0.7
	FuzzyMatchFloor         = 0.4
	AIFuzzyMatchFloor       = 0.5

	// PartialMatchMinWordLen: only words longer than this take part in containment matching.
	PartialMatchMinWordLen = 3
	// SignificantWordMinLen: words longer than this count toward the synonym fraction.
	SignificantWordMinLen = 2
)

const (
	MinMessageLength   = 5  // normalized text shorter than this goes straight to emergency
	MinClientNameLen   = 3  // structured client names shorter than this fail the tier
	EmergencyNameLen   = 5  // emergency client lines must be longer than this
	EmergencyScanLimit = 10 // catalog prefix scanned by the emergency keyword search
)

// Quality score weights, out of 100.
const (
	WeightClientName = 25
	WeightEmail      = 25
	WeightPhone      = 15
	WeightProducts   = 35
)
