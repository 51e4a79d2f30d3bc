// Package domain holds DTOs for listings http and service contracts
package domain

import (
	"time"

	"pestwatch/internal/core/geo"
	records "pestwatch/internal/services/records/domain"
)

// PageQuery selects one page of a collection
// Cursor is the id of the last record of the previous page
type PageQuery struct {
	Collection string
	Limit      int
	Cursor     string
	PredID     string // history only
}

// Listing is one page of records
// NextCursor is null once the collection is exhausted
type Listing struct {
	Collection string  `json:"collection" example:"detections"`
	Items      any     `json:"items"`
	NextCursor *string `json:"nextCursor" example:"8b0f7c1e-3a71-4a51-9d8e-2f0c1f6f2b10"`
}

// DetectionView is a detection with its state resolved from the location
type DetectionView struct {
	records.Detection
	Region *geo.State `json:"region,omitempty"`
}

// NewDetectionView resolves the region of d
func NewDetectionView(d records.Detection) DetectionView {
	v := DetectionView{Detection: d}
	if st, ok := geo.Normalize(d.Location); ok {
		v.Region = &st
	}
	return v
}

// IngestInput is a detection handed over by the analysis pipeline
// ID and Timestamp are generated when omitted; UserID defaults to the caller over http
type IngestInput struct {
	ID         string     `json:"id,omitempty" validate:"omitempty,max=200" example:"8b0f7c1e-3a71-4a51-9d8e-2f0c1f6f2b10"`
	Confidence float64    `json:"confidence" validate:"gte=0,lte=1" example:"0.87"`
	ImageURLs  []string   `json:"imageUrls" validate:"required,min=1,dive,url" example:"https://cdn.example.com/d/1.jpg"`
	Species    string     `json:"species" validate:"required,max=200" example:"Rhinella marina"`
	Location   string     `json:"location,omitempty" validate:"max=500" example:"Toowoomba, Queensland"`
	UserID     string     `json:"userId,omitempty" validate:"omitempty,max=200" example:"field-team-3"`
	Timestamp  *time.Time `json:"timestamp,omitempty" example:"2025-03-01T09:30:00Z"`
}

// Ingested is returned by a successful ingest
type Ingested struct {
	ID string `json:"id" example:"8b0f7c1e-3a71-4a51-9d8e-2f0c1f6f2b10"`
}
