package pythia

import (
	"time"

	"github.com/custodia-labs/artemis/internal/core/domain"
)

// frameworkDTO is the wire form of a framework record.
type frameworkDTO struct {
	Name                  string  `json:"name"`
	InternalType          string  `json:"internalType"`
	DiscoveryDate         string  `json:"discoveryDate"`
	Location              string  `json:"location"`
	Description           string  `json:"description"`
	Type                  string  `json:"type"`
	Category              string  `json:"category"`
	NumberOfDetections    int64   `json:"numberOfDetection"`
	PercentageOfDetection float64 `json:"percentageOfDetection"`
	DetectionScore        float64 `json:"detectionScore"`
}

type lastUpdateResponse struct {
	LastUpdate int64 `json:"lastUpdate"`
}

type pullResponse struct {
	Frameworks []frameworkDTO `json:"frameworks"`
}

type forecastResponse struct {
	Count int64 `json:"count"`
}

func (d frameworkDTO) toDomain() (domain.FrameworkRecord, error) {
	t, err := domain.ParseFrameworkType(d.Type)
	if err != nil {
		return domain.FrameworkRecord{}, err
	}
	return domain.FrameworkRecord{
		Name:                  d.Name,
		InternalType:          d.InternalType,
		DiscoveryDate:         d.DiscoveryDate,
		Location:              d.Location,
		Description:           d.Description,
		Type:                  t,
		Category:              d.Category,
		NumberOfDetections:    d.NumberOfDetections,
		PercentageOfDetection: d.PercentageOfDetection,
		DetectionScore:        d.DetectionScore,
	}, nil
}

// millis converts a watermark to epoch milliseconds; the zero time is 0.
func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// fromMillis converts epoch milliseconds to a UTC time; 0 is the zero time.
func fromMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
