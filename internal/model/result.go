package model

import "strconv"

// Level is the 0–3 competency classification of a dimension.
type Level int

const (
	Level0 Level = iota
	Level1
	Level2
	Level3
)

// Valid reports whether l is one of the four defined levels.
func (l Level) Valid() bool {
	return l >= Level0 && l <= Level3
}

func (l Level) String() string {
	return strconv.Itoa(int(l))
}

// DimensionResult is derived from a session's answers and never stored on its own.
type DimensionResult struct {
	Level           Level   `json:"level"`
	MeanScore       float64 `json:"meanScore"`
	GatekeeperScore int     `json:"gatekeeperScore"`
	DowngradeReason *string `json:"downgradeReason"`
	Downgraded      bool    `json:"downgraded"`
}
