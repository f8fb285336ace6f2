package search

import "github.com/docuseek/docuseek/internal/store"

// Match is a single scored hit against the index.
type Match struct {
	File store.IndexedFile
	// Score is in [0, 1]; 1.0 means the query equals the file name after
	// normalization.
	Score float64
	// NormalizedName is the candidate form the score was computed against.
	// Ranking ties on Score break on this field ascending.
	NormalizedName string
}

// Threshold bounds accepted by the engine. Anything below MinThreshold
// admits too much noise to be useful.
const (
	MinThreshold = 0.5
	MaxThreshold = 1.0
)
