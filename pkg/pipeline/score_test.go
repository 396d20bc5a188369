package pipeline

import (
	"math"
	"testing"
)

func TestReadinessScore(t *testing.T) {
	tests := []struct {
		name        string
		successRate float64
		errorRate   float64
		want        float64
	}{
		{"perfect", 100, 0, 100},
		{"all failing", 0, 100, 0},
		{"error rate above 100 clamps", 50, 400, 35},
		{"blend", 80, 20, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := readinessScore(tt.successRate, tt.errorRate)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("readinessScore(%v, %v) = %v, want %v", tt.successRate, tt.errorRate, got, tt.want)
			}
		})
	}
}

func TestDataQualityScore(t *testing.T) {
	if got := dataQualityScore(0); got != 100 {
		t.Errorf("dataQualityScore(0) = %v, want 100", got)
	}
	if got := dataQualityScore(30); got != 40 {
		t.Errorf("dataQualityScore(30) = %v, want 40", got)
	}
	if got := dataQualityScore(80); got != 0 {
		t.Errorf("dataQualityScore(80) = %v, want 0 (floored)", got)
	}
}

func TestHealthRating(t *testing.T) {
	tests := []struct {
		readiness float64
		want      string
	}{
		{100, HealthExcellent},
		{90, HealthExcellent},
		{89.9, HealthGood},
		{75, HealthGood},
		{74.9, HealthFair},
		{60, HealthFair},
		{59.9, HealthPoor},
		{0, HealthPoor},
	}

	for _, tt := range tests {
		if got := healthRating(tt.readiness); got != tt.want {
			t.Errorf("healthRating(%v) = %q, want %q", tt.readiness, got, tt.want)
		}
	}
}

func TestFieldHotspots(t *testing.T) {
	var critical []CriticalIssue
	for i := 0; i < 6; i++ {
		critical = append(critical, CriticalIssue{Validator: "product", Field: "sku"})
	}
	critical = append(critical, CriticalIssue{Validator: "product", Field: "name"})

	hot := fieldHotspots(critical)
	if len(hot) != 1 {
		t.Fatalf("hotspots = %+v, want exactly one", hot)
	}
	if hot[0].field != "sku" || hot[0].count != 6 {
		t.Errorf("hotspot = %+v, want sku with 6", hot[0])
	}
}
