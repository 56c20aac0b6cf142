package service

import (
	"math"
	"strings"
	"time"

	"github.com/yndnr/brainscan-go/internal/core/domain"
)

// HistoryStats summarizes a doctor's predictions.
type HistoryStats struct {
	Total           int     `json:"total" yaml:"total"`
	Tumor           int     `json:"tumor" yaml:"tumor"`
	NonTumor        int     `json:"non_tumor" yaml:"non_tumor"`
	TumorPercent    float64 `json:"tumor_percent" yaml:"tumor_percent"`
	NonTumorPercent float64 `json:"non_tumor_percent" yaml:"non_tumor_percent"`
}

// ComputeHistoryStats counts results after normalization.
func ComputeHistoryStats(preds []domain.Prediction) HistoryStats {
	s := HistoryStats{Total: len(preds)}
	for _, p := range preds {
		switch {
		case domain.IsTumorResult(p.Result):
			s.Tumor++
		case domain.IsNonTumorResult(p.Result):
			s.NonTumor++
		}
	}
	s.TumorPercent = Percent(s.Tumor, s.Total)
	s.NonTumorPercent = Percent(s.NonTumor, s.Total)
	return s
}

// Overview is the admin system summary.
type Overview struct {
	TotalDoctors      int     `json:"total_doctors" yaml:"total_doctors"`
	VerifiedDoctors   int     `json:"verified_doctors" yaml:"verified_doctors"`
	PendingDoctors    int     `json:"pending_doctors" yaml:"pending_doctors"`
	TotalPredictions  int     `json:"total_predictions" yaml:"total_predictions"`
	TodayPredictions  int     `json:"today_predictions" yaml:"today_predictions"`
	Tumor             int     `json:"tumor" yaml:"tumor"`
	NoTumor           int     `json:"no_tumor" yaml:"no_tumor"`
	TumorPercent      float64 `json:"tumor_percent" yaml:"tumor_percent"`
	NoTumorPercent    float64 `json:"no_tumor_percent" yaml:"no_tumor_percent"`
	AverageConfidence float64 `json:"average_confidence" yaml:"average_confidence"`
}

// ComputeOverview builds the admin summary. "Today" is the UTC calendar
// day of now.
func ComputeOverview(doctors []domain.Doctor, preds []domain.Prediction, now time.Time) Overview {
	o := Overview{
		TotalDoctors:     len(doctors),
		TotalPredictions: len(preds),
	}
	for _, d := range doctors {
		if d.Verified {
			o.VerifiedDoctors++
		}
	}
	o.PendingDoctors = o.TotalDoctors - o.VerifiedDoctors

	today := now.UTC().Format("2006-01-02")
	var confidence float64
	for _, p := range preds {
		switch {
		case domain.IsTumorResult(p.Result):
			o.Tumor++
		case domain.IsNonTumorResult(p.Result):
			o.NoTumor++
		}
		if sameDay(p.Timestamp, today) {
			o.TodayPredictions++
		}
		confidence += p.Confidence
	}

	o.TumorPercent = Percent(o.Tumor, o.TotalPredictions)
	o.NoTumorPercent = Percent(o.NoTumor, o.TotalPredictions)
	if o.TotalPredictions > 0 {
		o.AverageConfidence = round1(confidence / float64(o.TotalPredictions) * 100)
	}
	return o
}

func sameDay(ts domain.Timestamp, day string) bool {
	if !ts.Time.IsZero() {
		return ts.Time.UTC().Format("2006-01-02") == day
	}
	return strings.HasPrefix(ts.Raw, day)
}

// Percent returns part/total as a percentage with one decimal, or 0 when
// total is 0.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
