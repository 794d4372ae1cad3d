package tracker

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Weights maps an activity type to its base score contribution.
type Weights map[string]int

// Unknown activity types still count for something.
const fallbackWeight = 1

// DefaultWeights is the supplied per-activity weight table.
func DefaultWeights() Weights {
	return Weights{
		"code_commit":           2,
		"pull_request":          5,
		"code_review":           3,
		"meeting_participation": 1,
		"meeting_led":           3,
		"knowledge_sharing":     4,
		"mentoring_session":     6,
		"project_completed":     10,
		"goal_achieved":         8,
		"peer_recognition":      5,
		"customer_feedback":     4,
		"innovation_idea":       3,
		"presentation_given":    4,
		"training_completed":    6,
		"feedback_given":        2,
		"feedback_received":     1,
	}
}

// LoadWeights reads a YAML weight table and overlays it on the
// defaults, so a partial file only overrides the types it names.
func LoadWeights(path string) (Weights, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights file: %w", err)
	}
	var file struct {
		Weights map[string]int `yaml:"weights"`
	}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse weights file: %w", err)
	}
	w := DefaultWeights()
	for k, v := range file.Weights {
		w[k] = v
	}
	return w, nil
}

func (w Weights) base(activityType string) int {
	if v, ok := w[activityType]; ok {
		return v
	}
	return fallbackWeight
}

// scoreDelta computes the signed contribution of one activity: base
// weight adjusted by project size, impact level and duration, truncated
// to an integer. Unknown metadata fields pass through untouched.
func scoreDelta(w Weights, activityType string, metadata map[string]any) int64 {
	base := w.base(activityType)

	multiplier := 1.0
	switch metaString(metadata, "project_size") {
	case "large":
		multiplier *= 1.5
	case "medium":
		multiplier *= 1.2
	}
	switch metaString(metadata, "impact_level") {
	case "high":
		multiplier *= 1.3
	case "medium":
		multiplier *= 1.1
	}
	if hours, ok := metaFloat(metadata, "duration_hours"); ok {
		if hours > 8 {
			multiplier *= 1.2
		} else if hours > 4 {
			multiplier *= 1.1
		}
	}

	return int64(float64(base) * multiplier)
}

func metaString(metadata map[string]any, key string) string {
	if metadata == nil {
		return ""
	}
	s, _ := metadata[key].(string)
	return s
}

func metaFloat(metadata map[string]any, key string) (float64, bool) {
	if metadata == nil {
		return 0, false
	}
	switch v := metadata[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
