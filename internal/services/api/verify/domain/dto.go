// Package domain holds DTOs for verification http and service contracts
package domain

import (
	"slices"
	"time"

	perr "pestwatch/internal/platform/errors"
	records "pestwatch/internal/services/records/domain"
)

// CreateInput is the first review submitted for a detection
// verifierID defaults to the authenticated caller when omitted over http
type CreateInput struct {
	PredID            string   `json:"predID" validate:"required,max=200" example:"8b0f7c1e-3a71-4a51-9d8e-2f0c1f6f2b10"`
	Status            string   `json:"status" validate:"required" example:"pending"`
	VerifierID        string   `json:"verifierID,omitempty" validate:"omitempty,max=200" example:"reviewer-17"`
	Confidence        float64  `json:"confidence,omitempty" validate:"gte=0" example:"0.92"`
	Notes             string   `json:"notes,omitempty" validate:"max=4000"`
	Category          string   `json:"category,omitempty" example:"real-pest"`
	CorrectedSpecies  *string  `json:"correctedSpecies,omitempty" validate:"omitempty,max=200"`
	CanReuseData      bool     `json:"canReuseData,omitempty"`
	NeedsExpertReview bool     `json:"needsExpertReview,omitempty"`
	ImageURLs         []string `json:"imageUrls,omitempty" validate:"omitempty,dive,url"`
}

// Created is returned by a successful create
type Created struct {
	ID string `json:"id" example:"0f9a3c8e-7d0b-4a8e-8f61-3b8d9f1a2c44"`
}

// VerificationPatch is a typed partial update
// a nil field is absent and leaves the stored value untouched; a non nil field
// overwrites it, zero values included. JSON null decodes to nil and is absent.
type VerificationPatch struct {
	Status            *string   `json:"status,omitempty" example:"verified"`
	Confidence        *float64  `json:"confidence,omitempty" validate:"omitempty,gte=0"`
	Notes             *string   `json:"notes,omitempty" validate:"omitempty,max=4000"`
	Category          *string   `json:"category,omitempty"`
	CorrectedSpecies  *string   `json:"correctedSpecies,omitempty" validate:"omitempty,max=200"`
	CanReuseData      *bool     `json:"canReuseData,omitempty"`
	NeedsExpertReview *bool     `json:"needsExpertReview,omitempty"`
	ImageURLs         *[]string `json:"imageUrls,omitempty"`
}

// Apply validates p and merges it onto v
func (p VerificationPatch) Apply(v records.Verification) (records.Verification, error) {
	if p.Status != nil {
		st, err := records.ParseStatus(*p.Status)
		if err != nil {
			return v, err
		}
		v.Status = st
	}
	if p.Category != nil {
		c, err := ParseCategory(*p.Category)
		if err != nil {
			return v, err
		}
		v.Category = c
	}
	if p.Confidence != nil {
		v.Confidence = *p.Confidence
	}
	if p.Notes != nil {
		v.Notes = *p.Notes
	}
	if p.CorrectedSpecies != nil {
		s := *p.CorrectedSpecies
		v.CorrectedSpecies = &s
	}
	if p.CanReuseData != nil {
		v.CanReuseData = *p.CanReuseData
	}
	if p.NeedsExpertReview != nil {
		v.NeedsExpertReview = *p.NeedsExpertReview
	}
	if p.ImageURLs != nil {
		v.ImageURLs = slices.Clone(*p.ImageURLs)
	}
	return v, nil
}

// ParseCategory accepts an empty category or one of the fixed taxonomy
func ParseCategory(s string) (records.Category, error) {
	c := records.Category(s)
	if c == "" || c.Known() {
		return c, nil
	}
	return "", perr.WithField(
		perr.Validationf("category must be one of google-sourced, unknown-species, unrelated, real-pest; got %q", s),
		"category",
	)
}

// UpdateInput is the body of an update request
// changedBy defaults to the authenticated caller when omitted over http
type UpdateInput struct {
	Updates   VerificationPatch `json:"updates"`
	ChangedBy string            `json:"changedBy,omitempty" validate:"omitempty,max=200" example:"reviewer-2"`
	Reason    string            `json:"reason" validate:"max=2000" example:"confirmed by expert"`
}

// Updated is returned by a successful update
type Updated struct {
	Verification records.Verification `json:"verification"`
	History      records.HistoryEntry `json:"history"`
}

// HistoryView is the audit trail of one detection
type HistoryView struct {
	PredID  string                 `json:"predID"`
	Entries []records.HistoryEntry `json:"entries"`
}

// ChangeEvent describes a committed verification write
type ChangeEvent struct {
	Op       string
	PredID   string
	Status   records.Status
	At       time.Time
	Previous records.Status
}
