// Package domain holds the detection, verification and audit history records
// shared by every module that reads or writes them
package domain

import (
	"strings"
	"time"

	"pestwatch/internal/core/cursor"
	perr "pestwatch/internal/platform/errors"
)

// Status is the review state of a detection
type Status string

// Review states
const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"

	// StatusNotPest is a legacy value still present in older verification rows
	// it is never accepted on input
	StatusNotPest Status = "not-pest"
)

// Statuses lists the states accepted on input
var Statuses = []Status{StatusPending, StatusVerified, StatusRejected}

// Valid reports whether s is one of the accepted review states
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected:
		return true
	}
	return false
}

// ParseStatus validates a wire status value
func ParseStatus(s string) (Status, error) {
	st := Status(strings.TrimSpace(s))
	if !st.Valid() {
		return "", perr.WithField(
			perr.Validationf("status must be one of pending, verified, rejected; got %q", s),
			"status",
		)
	}
	return st, nil
}

// Category buckets a reviewed detection for charting
type Category string

// Known categories
const (
	CategoryGoogleSourced  Category = "google-sourced"
	CategoryUnknownSpecies Category = "unknown-species"
	CategoryUnrelated      Category = "unrelated"
	CategoryRealPest       Category = "real-pest"
)

// Categories is the fixed chart taxonomy in display order
var Categories = []Category{
	CategoryGoogleSourced,
	CategoryUnknownSpecies,
	CategoryUnrelated,
	CategoryRealPest,
}

// Known reports whether c is part of the fixed taxonomy
func (c Category) Known() bool {
	switch c {
	case CategoryGoogleSourced, CategoryUnknownSpecies, CategoryUnrelated, CategoryRealPest:
		return true
	}
	return false
}

// Detection is one analyzed image submitted by the analysis pipeline
type Detection struct {
	ID            string    `json:"id"`
	Confidence    float64   `json:"confidence"`
	CurVeriStatus Status    `json:"curVeriStatus"`
	ImageURLs     []string  `json:"imageUrls"`
	Species       string    `json:"species"`
	Location      string    `json:"location,omitempty"`
	UserID        string    `json:"userId"`
	CreatedAt     time.Time `json:"timestamp"`
}

// Key returns the listing sort key
func (d Detection) Key() cursor.Key { return cursor.Key{At: d.CreatedAt, ID: d.ID} }

// Verification is the single current review of a detection
type Verification struct {
	ID                string    `json:"id"`
	PredID            string    `json:"predID"`
	Status            Status    `json:"status"`
	VerifierID        string    `json:"verifierID"`
	Confidence        float64   `json:"confidence"`
	Notes             string    `json:"notes"`
	Category          Category  `json:"category,omitempty"`
	CorrectedSpecies  *string   `json:"correctedSpecies,omitempty"`
	CanReuseData      bool      `json:"canReuseData"`
	NeedsExpertReview bool      `json:"needsExpertReview"`
	ImageURLs         []string  `json:"imageUrls"`
	Timestamp         time.Time `json:"timestamp"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Key returns the listing sort key, most recent review first
func (v Verification) Key() cursor.Key { return cursor.Key{At: v.Timestamp, ID: v.ID} }

// HistoryEntry is one immutable audit record of a verification update
type HistoryEntry struct {
	ID             string    `json:"id"`
	VerificationID string    `json:"verificationID"`
	PredID         string    `json:"predID"`
	PreviousStatus Status    `json:"previousStatus"`
	NewStatus      Status    `json:"newStatus"`
	ChangedBy      string    `json:"changedBy"`
	ChangedAt      time.Time `json:"changedAt"`
	Reason         string    `json:"reason"`
}

// Key returns the listing sort key
func (h HistoryEntry) Key() cursor.Key { return cursor.Key{At: h.ChangedAt, ID: h.ID} }

// Collection names a pageable record set
type Collection string

// Pageable collections
const (
	CollectionDetections    Collection = "detections"
	CollectionVerifications Collection = "verifications"
	CollectionHistory       Collection = "history"
)

// ParseCollection validates a collection name
func ParseCollection(s string) (Collection, error) {
	switch c := Collection(strings.ToLower(strings.TrimSpace(s))); c {
	case CollectionDetections, CollectionVerifications, CollectionHistory:
		return c, nil
	}
	return "", perr.WithField(perr.Validationf("unknown collection %q", s), "collection")
}
