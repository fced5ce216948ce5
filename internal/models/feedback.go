package models

import (
	"errors"
	"time"

	"github.com/spacesedan/feedbackhub/internal/sentiment"
)

var ErrFeedbackNotFound = errors.New("feedback not found")

// Feedback is a scored feedback record as stored and returned by the API.
type Feedback struct {
	ID               string               `json:"id" dynamodbav:"id"`
	EventID          string               `json:"event_id,omitempty" dynamodbav:"event_id,omitempty"`
	EventName        string               `json:"event_name" dynamodbav:"event_name"`
	FeedbackText     string               `json:"feedback_text" dynamodbav:"feedback_text"`
	UserID           string               `json:"user_id,omitempty" dynamodbav:"user_id,omitempty"`
	Rating           *int                 `json:"rating,omitempty" dynamodbav:"rating,omitempty"`
	SentimentScore   float64              `json:"sentiment_score" dynamodbav:"sentiment_score"`
	SentimentLabel   string               `json:"sentiment_label" dynamodbav:"sentiment_label"`
	SentimentDetails sentiment.Components `json:"sentiment_details" dynamodbav:"sentiment_details"`
	CreatedAt        time.Time            `json:"created_at" dynamodbav:"created_at"`
}

// FeedbackInput is the client-supplied part of a feedback submission.
// An EventID ties the feedback to a registered event; EventName may then be
// omitted and defaults to the event title.
type FeedbackInput struct {
	EventID      string `json:"event_id,omitempty"`
	EventName    string `json:"event_name"`
	FeedbackText string `json:"feedback_text"`
	UserID       string `json:"user_id,omitempty"`
	Rating       *int   `json:"rating,omitempty"`
}

// FeedbackFilter narrows a listing. Zero values match everything.
type FeedbackFilter struct {
	EventID   string
	EventName string
	UserID    string
	Limit     int
}

func (f FeedbackFilter) Matches(fb Feedback) bool {
	if f.EventID != "" && fb.EventID != f.EventID {
		return false
	}
	if f.EventName != "" && fb.EventName != f.EventName {
		return false
	}
	if f.UserID != "" && fb.UserID != f.UserID {
		return false
	}
	return true
}
