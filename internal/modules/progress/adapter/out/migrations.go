package out

import (
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"

	"stillpoint/internal/modules/progress/domain"
)

// migrationEnv supplies the values a step may need to synthesize defaults.
type migrationEnv struct {
	today     civil.Date
	newUserID func() string
}

type migration struct {
	version int
	apply   func(doc map[string]any, env migrationEnv) (map[string]any, error)
}

// migrations is append-only: a document frozen at any historical version
// must still walk forward through every later step.
var migrations = []migration{
	{version: 1, apply: mergeOverDefaults},
	{version: 2, apply: synthesizeCurriculum},
}

// migrate runs every step newer than the document's version. It reports
// whether anything changed so the caller can persist the result once.
func migrate(doc map[string]any, env migrationEnv) (map[string]any, bool, error) {
	version := documentVersion(doc)
	changed := false
	for _, m := range migrations {
		if version >= m.version {
			continue
		}
		next, err := m.apply(doc, env)
		if err != nil {
			return nil, false, fmt.Errorf("migrate to v%d: %w", m.version, err)
		}
		next["version"] = m.version
		doc = next
		version = m.version
		changed = true
	}
	return doc, changed, nil
}

func documentVersion(doc map[string]any) int {
	switch v := doc["version"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// mergeOverDefaults lays the stored fields over a complete v1 document so
// fields added as the schema grew get their defaults.
func mergeOverDefaults(doc map[string]any, env migrationEnv) (map[string]any, error) {
	defaults, err := toDocument(domain.NewAggregate(env.newUserID(), env.today))
	if err != nil {
		return nil, err
	}
	delete(defaults, "curriculum")
	return deepMerge(defaults, doc), nil
}

// synthesizeCurriculum adds the 365-day tracker that v1 documents lack.
func synthesizeCurriculum(doc map[string]any, env migrationEnv) (map[string]any, error) {
	if existing, ok := doc["curriculum"]; ok && existing != nil {
		return doc, nil
	}
	tracker, err := toDocument(domain.CurriculumCycle.NewTracker(env.today))
	if err != nil {
		return nil, err
	}
	doc["curriculum"] = tracker
	return doc, nil
}

// deepMerge copies src over dst. Nested objects merge key by key; every
// other stored value, including arrays, replaces the default.
func deepMerge(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		if v == nil {
			continue
		}
		srcMap, srcIsMap := v.(map[string]any)
		dstMap, dstIsMap := out[k].(map[string]any)
		if srcIsMap && dstIsMap {
			out[k] = deepMerge(dstMap, srcMap)
			continue
		}
		out[k] = v
	}
	return out
}

// scrubEmptyDates rewrites the "" form of date fields before typing, since
// civil.Date refuses to decode it. Optional dates become absent, a missing
// cycle start (or tracker) starts today and undated history entries are
// dropped. It runs
// on every read, whatever the version, and reports whether it changed doc.
func scrubEmptyDates(doc map[string]any, today civil.Date) bool {
	changed := false
	if streak, ok := doc["streak"].(map[string]any); ok {
		changed = dropEmpty(streak, "lastActiveDate") || changed
		if history, ok := streak["history"].([]any); ok {
			kept := make([]any, 0, len(history))
			for _, d := range history {
				if isEmptyDate(d) {
					changed = true
					continue
				}
				kept = append(kept, d)
			}
			streak["history"] = kept
		}
	}
	for key, cycle := range map[string]domain.Cycle{"dailyTeaching": domain.TeachingCycle, "curriculum": domain.CurriculumCycle} {
		tracker, ok := doc[key].(map[string]any)
		if !ok {
			if doc[key] != nil {
				continue
			}
			if fresh, err := toDocument(cycle.NewTracker(today)); err == nil {
				doc[key] = fresh
				changed = true
			}
			continue
		}
		changed = dropEmpty(tracker, "lastViewedDate") || changed
		if start, present := tracker["cycleStartDate"]; !present || isEmptyDate(start) {
			tracker["cycleStartDate"] = today.String()
			changed = true
		}
	}
	if concepts, ok := doc["conceptEngagement"].(map[string]any); ok {
		for _, raw := range concepts {
			if entry, ok := raw.(map[string]any); ok {
				changed = dropEmpty(entry, "firstViewed") || changed
				changed = dropEmpty(entry, "lastViewed") || changed
			}
		}
	}
	if shamatha, ok := doc["shamatha"].(map[string]any); ok {
		if sessions, ok := shamatha["sessionHistory"].([]any); ok {
			kept := make([]any, 0, len(sessions))
			for _, raw := range sessions {
				if session, ok := raw.(map[string]any); ok && isEmptyDate(session["date"]) {
					changed = true
					continue
				}
				kept = append(kept, raw)
			}
			shamatha["sessionHistory"] = kept
		}
	}
	return changed
}

func dropEmpty(m map[string]any, key string) bool {
	v, ok := m[key]
	if !ok || !isEmptyDate(v) {
		return false
	}
	delete(m, key)
	return true
}

func isEmptyDate(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func toDocument(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}
	doc := map[string]any{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode defaults: %w", err)
	}
	return doc, nil
}
