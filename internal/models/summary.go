package models

// EventSummary aggregates sentiment labels for one event.
type EventSummary struct {
	EventName    string  `json:"event_name"`
	Count        int64   `json:"count"`
	Positive     int64   `json:"positive"`
	Negative     int64   `json:"negative"`
	Neutral      int64   `json:"neutral"`
	AverageScore float64 `json:"average_score"`
}
