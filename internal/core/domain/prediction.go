package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// Canonical prediction results.
const (
	ResultTumor    = "Tumor"
	ResultNonTumor = "Non-Tumor"
	ResultUnknown  = "Unknown"
)

var (
	tumorSynonyms    = []string{"tumor", "tumour"}
	nonTumorSynonyms = []string{"non-tumor", "non-tumour", "no tumor", "no tumour", "normal"}
)

// Prediction is an inference record owned by the backend.
type Prediction struct {
	ID         string    `json:"_id" yaml:"id" table:"wide"`
	Filename   string    `json:"filename" yaml:"filename"`
	Result     string    `json:"result" yaml:"result"`
	Confidence float64   `json:"confidence" yaml:"confidence"`
	Timestamp  Timestamp `json:"timestamp" yaml:"timestamp"`
	Heatmap    string    `json:"heatmap,omitempty" yaml:"heatmap,omitempty" table:"wide"`
	UserEmail  string    `json:"user_email,omitempty" yaml:"user_email,omitempty"`
}

// PredictionOutcome is the response to an image submission.
type PredictionOutcome struct {
	Result     string  `json:"result" yaml:"result"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Heatmap    string  `json:"heatmap" yaml:"heatmap"`
	Filename   string  `json:"filename,omitempty" yaml:"filename,omitempty"`
}

// NormalizeResult maps backend result strings onto the canonical forms.
// Matching is case-insensitive and ignores surrounding whitespace.
// Unrecognized values are returned unchanged; empty values become Unknown.
func NormalizeResult(result string) string {
	lower := strings.ToLower(strings.TrimSpace(result))
	if lower == "" {
		return ResultUnknown
	}
	for _, s := range tumorSynonyms {
		if lower == s {
			return ResultTumor
		}
	}
	for _, s := range nonTumorSynonyms {
		if lower == s {
			return ResultNonTumor
		}
	}
	return result
}

// IsTumorResult reports whether result classifies as a tumor.
func IsTumorResult(result string) bool {
	return NormalizeResult(result) == ResultTumor
}

// IsNonTumorResult reports whether result classifies as no tumor.
func IsNonTumorResult(result string) bool {
	return NormalizeResult(result) == ResultNonTumor
}

// Normalized returns a copy with the result in canonical form.
func (p Prediction) Normalized() Prediction {
	p.Result = NormalizeResult(p.Result)
	return p
}

// ConfidencePercent renders confidence as a rounded whole percentage.
func ConfidencePercent(confidence float64) int {
	return int(math.Round(confidence * 100))
}

// Timestamp accepts the several time layouts the backend emits.
type Timestamp struct {
	time.Time
	Raw string
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02",
}

// ParseTimestamp parses s with the known layouts, keeping the raw text.
func ParseTimestamp(s string) Timestamp {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t, Raw: s}
		}
	}
	return Timestamp{Raw: s}
}

// UnmarshalJSON implements json.Unmarshaler.
// Strings are parsed with the known layouts; numbers are Unix seconds.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = ParseTimestamp(s)
		return nil
	}
	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	whole := int64(secs)
	*t = Timestamp{Time: time.Unix(whole, int64((secs-float64(whole))*1e9)).UTC()}
	return nil
}

// MarshalJSON implements json.Marshaler, echoing the raw text.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// MarshalYAML implements yaml.Marshaler.
func (t Timestamp) MarshalYAML() (any, error) {
	return t.String(), nil
}

// String returns the raw text, or RFC3339 when built from a time.
func (t Timestamp) String() string {
	if t.Raw != "" {
		return t.Raw
	}
	if t.Time.IsZero() {
		return ""
	}
	return t.Time.Format(time.RFC3339)
}

// Format renders the timestamp with layout, or the raw text when unparsed.
func (t Timestamp) Format(layout string) string {
	if t.Time.IsZero() {
		return t.Raw
	}
	return t.Time.Format(layout)
}
