package roles

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Verdict is the judge role's structured result.
type Verdict struct {
	Passed   bool   `json:"passed"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// ParseVerdict extracts the first JSON object from the judge's output
// text and validates its shape. Models wrap JSON in code fences or
// prose often enough that a plain Unmarshal is not sufficient.
func ParseVerdict(text string) (*Verdict, error) {
	payload, err := ExtractJSONObject(text)
	if err != nil {
		return nil, fmt.Errorf("judge output: %w", err)
	}

	// Decode loosely first so a missing field is distinguishable from a
	// false/zero one.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &probe); err != nil {
		return nil, fmt.Errorf("judge output: malformed JSON: %w", err)
	}
	if _, ok := probe["passed"]; !ok {
		return nil, fmt.Errorf("judge output: missing required field %q", "passed")
	}

	var v Verdict
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return nil, fmt.Errorf("judge output: unexpected field types: %w", err)
	}
	if v.Score < 0 || v.Score > 100 {
		return nil, fmt.Errorf("judge output: score %d out of range", v.Score)
	}
	return &v, nil
}

// ExtractJSONObject returns the first balanced {...} span in text,
// ignoring braces inside JSON strings. Used for every role that is
// instructed to answer with a single JSON object.
func ExtractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object found")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON object")
}
