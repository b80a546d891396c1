// Package classify turns free-text reports into a category and priority and
// turns admin commands into configuration proposals.
package classify

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"zelapb/api/internal/store"
)

// Analysis is what a classifier says about one report description.
type Analysis struct {
	Category string         `json:"category"`
	Priority store.Priority `json:"priority"`
	Summary  string         `json:"summary"`
}

// Fallback is substituted whenever classification fails.
var Fallback = Analysis{
	Category: store.SpecialtyGeneral,
	Priority: store.PriorityMedium,
	Summary:  "Novo Relato",
}

var ErrEmptyResponse = errors.New("empty model response")

var (
	jsonFence = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*```")
	anyFence  = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// ExtractJSON pulls a JSON document out of a model reply: a ```json fence
// first, then any fence, then the span from the first '{' to the last '}'.
func ExtractJSON(text string) string {
	if m := jsonFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := anyFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first != -1 && last > first {
		return text[first : last+1]
	}
	return strings.TrimSpace(text)
}

// ParseAnalysis extracts and validates an Analysis from a model reply.
func ParseAnalysis(text string) (Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return Analysis{}, ErrEmptyResponse
	}
	var result Analysis
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &result); err != nil {
		return Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	result.Category = strings.TrimSpace(result.Category)
	result.Summary = strings.TrimSpace(result.Summary)
	if result.Category == "" {
		return Analysis{}, errors.New("category is required")
	}
	if result.Summary == "" {
		return Analysis{}, errors.New("summary is required")
	}
	if !result.Priority.Valid() {
		return Analysis{}, fmt.Errorf("priority %q is not one of Low, Medium, High", result.Priority)
	}
	return result, nil
}

// ParseConfig decodes a model reply onto a copy of current, so fields the
// reply leaves out keep their current values.
func ParseConfig(current store.SystemConfig, text string) (store.SystemConfig, error) {
	if strings.TrimSpace(text) == "" {
		return current, ErrEmptyResponse
	}
	proposed := current
	if err := json.Unmarshal([]byte(ExtractJSON(text)), &proposed); err != nil {
		return current, fmt.Errorf("decode config: %w", err)
	}
	if strings.TrimSpace(proposed.AppName) == "" {
		return current, errors.New("appName must not be empty")
	}
	return proposed, nil
}
