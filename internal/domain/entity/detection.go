package entity

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// RoadStatus is the label shown for a classified photo
type RoadStatus string

const (
	RoadStatusPothole RoadStatus = "Pothole Detected"
	RoadStatusNormal  RoadStatus = "Road is Normal"
)

// Detection records a single classified upload
type Detection struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	Filename   string     `json:"filename" gorm:"type:varchar(255);not null"`
	Status     RoadStatus `json:"status" gorm:"type:varchar(32);not null;index"`
	IsPothole  bool       `json:"is_pothole" gorm:"not null"`
	Confidence float64    `json:"confidence" gorm:"not null"`
	Threshold  float64    `json:"threshold" gorm:"not null"`
	LatencyMs  int64      `json:"latency_ms" gorm:"default:0"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime;index"`
}

// TableName returns the table name for GORM
func (Detection) TableName() string {
	return "detections"
}

// NewDetection classifies a raw model output against the threshold
func NewDetection(filename string, output, threshold float64) *Detection {
	isPothole := output > threshold
	status := RoadStatusNormal
	if isPothole {
		status = RoadStatusPothole
	}
	return &Detection{
		ID:         uuid.New(),
		Filename:   filename,
		Status:     status,
		IsPothole:  isPothole,
		Confidence: output,
		Threshold:  threshold,
	}
}

// FormattedConfidence renders the confidence with two decimals
func (d *Detection) FormattedConfidence() string {
	return strconv.FormatFloat(d.Confidence, 'f', 2, 64)
}
