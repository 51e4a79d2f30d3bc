// Package domain holds DTOs for analytics http and service contracts
package domain

import "time"

// MonthCategories counts reviewed detections per category for one month
type MonthCategories struct {
	Month          string `json:"month" example:"2025-03"`
	Name           string `json:"name" example:"March"`
	GoogleSourced  int    `json:"google-sourced" example:"2"`
	UnknownSpecies int    `json:"unknown-species" example:"0"`
	Unrelated      int    `json:"unrelated" example:"1"`
	RealPest       int    `json:"real-pest" example:"7"`
}

// StateCoverage is the share of detections located in one state
type StateCoverage struct {
	State      string  `json:"state" example:"QLD"`
	Name       string  `json:"name" example:"Queensland"`
	Count      int     `json:"count" example:"12"`
	Percentage float64 `json:"percentage" example:"37.5"`
}

// VolumeQuery bounds the volume series; both ends are optional months
type VolumeQuery struct {
	From string `json:"from,omitempty" validate:"omitempty,datetime=2006-01" example:"2025-01"`
	To   string `json:"to,omitempty" validate:"omitempty,datetime=2006-01" example:"2025-12"`
}

// VolumePoint is one month of detection volume
type VolumePoint struct {
	Timestamp time.Time `json:"timestamp" example:"2025-01-01T00:00:00Z"`
	Value     int64     `json:"value" example:"31"`
}

// VeriStats counts verifications per status
// Total always equals the sum of the reported buckets
type VeriStats struct {
	Total    int  `json:"total" example:"40"`
	Pending  int  `json:"pending" example:"10"`
	Verified int  `json:"verified" example:"25"`
	Rejected int  `json:"rejected" example:"4"`
	NotPest  *int `json:"notPest,omitempty" example:"1"`
}

// MonthCount is raw monthly volume as reported by a volume source
type MonthCount struct {
	Year  int
	Month time.Month
	Count int64
}
