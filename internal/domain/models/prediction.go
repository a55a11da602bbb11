package models

import "time"

// Action is the trading signal derived from class probabilities.
type Action string

const (
	ActionShort   Action = "Short"
	ActionLong    Action = "Long"
	ActionNeutral Action = "Neutral"
)

// Prediction is the outcome of one inference call against the latest
// feature row of the current snapshot.
type Prediction struct {
	Symbol    string
	ShortProb float64
	LongProb  float64
	Threshold float64
	Action    Action
	AsOf      time.Time // timestamp of the feature row the prediction was made on
}

// Resolve applies the decision rule to class probabilities. The default is
// Neutral; Short wins when its probability clears the threshold, and Long
// is evaluated afterwards and overrides Short when both clear it.
func Resolve(shortProb, longProb, threshold float64) Action {
	action := ActionNeutral
	if shortProb > threshold {
		action = ActionShort
	}
	if longProb > threshold {
		action = ActionLong
	}
	return action
}
