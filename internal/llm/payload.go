package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PayloadError reports free text that does not contain a parseable object.
type PayloadError struct {
	Text string
	Err  error
}

func (e *PayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("no JSON object in response: %v: %.200s", e.Err, e.Text)
	}
	return fmt.Sprintf("no JSON object in response: %.200s", e.Text)
}

func (e *PayloadError) Unwrap() error { return e.Err }

// ExtractObject parses the substring from the first "{" to the last "}" of
// text as a JSON object. It never panics; all failures are *PayloadError.
func ExtractObject(text string) (map[string]any, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, &PayloadError{Text: text}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil, &PayloadError{Text: text, Err: err}
	}
	return obj, nil
}
