package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"stillpoint/internal/platform/slug"
)

// ConceptEngagement tracks how a concept has been studied. Counters only grow.
type ConceptEngagement struct {
	FirstViewed      time.Time `json:"firstViewed"`
	LastViewed       time.Time `json:"lastViewed"`
	TotalTimeSeconds uint      `json:"totalTimeSeconds"`
	ViewCount        uint      `json:"viewCount"`
	LensesExplored   []string  `json:"lensesExplored"`
}

// ConceptView is one visit to a concept page.
type ConceptView struct {
	ConceptID string
	Lens      string
	Seconds   uint
	// CountView is false when the caller only reports additional reading time
	// for a visit already counted.
	CountView bool
}

// RecordConceptView returns a copy of engagement with the view applied.
func RecordConceptView(engagement map[string]ConceptEngagement, view ConceptView, now time.Time) (map[string]ConceptEngagement, error) {
	id := strings.TrimSpace(view.ConceptID)
	if id == "" {
		return nil, fmt.Errorf("concept id is required")
	}
	out := make(map[string]ConceptEngagement, len(engagement)+1)
	for k, v := range engagement {
		out[k] = v
	}

	entry, ok := out[id]
	if !ok || entry.FirstViewed.IsZero() {
		entry.FirstViewed = now
	}
	if now.After(entry.LastViewed) {
		entry.LastViewed = now
	}
	entry.TotalTimeSeconds += view.Seconds
	if view.CountView {
		entry.ViewCount++
	}
	if lens := NormalizeLens(view.Lens); lens != "" {
		entry.LensesExplored = addLens(entry.LensesExplored, lens)
	}
	if entry.LensesExplored == nil {
		entry.LensesExplored = []string{}
	}
	out[id] = entry
	return out, nil
}

// NormalizeLens turns a display label such as "Cognitive Science" into the
// stored tag "cognitive-science".
func NormalizeLens(lens string) string {
	return slug.Make(lens)
}

func addLens(lenses []string, lens string) []string {
	i := sort.SearchStrings(lenses, lens)
	if i < len(lenses) && lenses[i] == lens {
		return lenses
	}
	out := make([]string, 0, len(lenses)+1)
	out = append(out, lenses[:i]...)
	out = append(out, lens)
	out = append(out, lenses[i:]...)
	return out
}

type ConceptSummary struct {
	ID string
	ConceptEngagement
}

// TopConcepts ranks concepts by time spent, then by views, then by id.
func TopConcepts(engagement map[string]ConceptEngagement, limit int) []ConceptSummary {
	out := make([]ConceptSummary, 0, len(engagement))
	for id, e := range engagement {
		out = append(out, ConceptSummary{ID: id, ConceptEngagement: e})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalTimeSeconds != out[j].TotalTimeSeconds {
			return out[i].TotalTimeSeconds > out[j].TotalTimeSeconds
		}
		if out[i].ViewCount != out[j].ViewCount {
			return out[i].ViewCount > out[j].ViewCount
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
