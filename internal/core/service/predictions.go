package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yndnr/brainscan-go/internal/core/domain"
)

// ResultFilter selects predictions by canonical result.
type ResultFilter string

const (
	FilterAll     ResultFilter = "all"
	FilterTumor   ResultFilter = "tumor"
	FilterNoTumor ResultFilter = "no-tumor"
)

// SortOrder orders predictions.
type SortOrder string

const (
	SortNewest     SortOrder = "newest"
	SortOldest     SortOrder = "oldest"
	SortConfidence SortOrder = "confidence"
)

// ParseResultFilter validates a filter name. Empty means all.
func ParseResultFilter(s string) (ResultFilter, error) {
	switch f := ResultFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterTumor, FilterNoTumor:
		return f, nil
	default:
		return "", domain.ErrValidation.WithDetails(fmt.Sprintf("unknown filter %q (want all, tumor or no-tumor)", s))
	}
}

// ParseSortOrder validates a sort order name. Empty means newest.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortNewest, nil
	case SortNewest, SortOldest, SortConfidence:
		return o, nil
	default:
		return "", domain.ErrValidation.WithDetails(fmt.Sprintf("unknown sort %q (want newest, oldest or confidence)", s))
	}
}

// PredictionQuery is the admin prediction list view state.
type PredictionQuery struct {
	Search string
	Filter ResultFilter
	Sort   SortOrder
}

// Apply returns the matching predictions, normalized and ordered. The
// input slice is not modified.
func (q PredictionQuery) Apply(preds []domain.Prediction) []domain.Prediction {
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]domain.Prediction, 0, len(preds))
	for _, p := range preds {
		p = p.Normalized()
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Filename), needle) &&
			!strings.Contains(strings.ToLower(p.UserEmail), needle) {
			continue
		}
		if !q.matches(p.Result) {
			continue
		}
		out = append(out, p)
	}

	SortPredictions(out, q.Sort)
	return out
}

func (q PredictionQuery) matches(result string) bool {
	switch q.Filter {
	case FilterTumor:
		return domain.IsTumorResult(result)
	case FilterNoTumor:
		return domain.IsNonTumorResult(result)
	default:
		return true
	}
}

// SortPredictions orders preds in place. Ties keep their input order.
func SortPredictions(preds []domain.Prediction, order SortOrder) {
	switch order {
	case SortOldest:
		sort.SliceStable(preds, func(i, j int) bool {
			return preds[i].Timestamp.Time.Before(preds[j].Timestamp.Time)
		})
	case SortConfidence:
		sort.SliceStable(preds, func(i, j int) bool {
			return preds[i].Confidence > preds[j].Confidence
		})
	default:
		sort.SliceStable(preds, func(i, j int) bool {
			return preds[i].Timestamp.Time.After(preds[j].Timestamp.Time)
		})
	}
}
