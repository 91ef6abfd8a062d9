package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/frasnym/hackathon-universa-bali/pkg/models"
)

// rawDecision mirrors models.Decision with a pointer flag so a reply
// that never mentions is_decompose is rejected instead of silently
// parsing as a solve decision.
type rawDecision struct {
	IsDecompose *bool    `json:"is_decompose"`
	Reason      string   `json:"reason"`
	Subtasks    []string `json:"subtasks"`
}

// ParseDecision extracts the JSON decision object from the model's
// reply. Models tend to wrap the object in prose or code fences, so the
// parser scans for the outermost braces rather than requiring clean JSON.
func ParseDecision(response string) (*models.Decision, error) {
	jsonStart := strings.Index(response, "{")
	jsonEnd := strings.LastIndex(response, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		preview := response
		if len(preview) > 300 {
			preview = preview[:300] + "... (truncated)"
		}
		return nil, fmt.Errorf("%w: no JSON object found in response (%d chars): %q",
			ErrMalformedDecision, len(response), preview)
	}

	var raw rawDecision
	if err := json.Unmarshal([]byte(response[jsonStart:jsonEnd+1]), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDecision, err)
	}
	if raw.IsDecompose == nil {
		return nil, fmt.Errorf("%w: response is missing is_decompose", ErrMalformedDecision)
	}

	decision := &models.Decision{
		IsDecompose: *raw.IsDecompose,
		Reason:      raw.Reason,
		Subtasks:    raw.Subtasks,
	}
	for i, sub := range decision.Subtasks {
		decision.Subtasks[i] = strings.TrimSpace(sub)
	}
	return decision, nil
}
