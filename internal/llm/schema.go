package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// wordList is the object root used by backends whose structured output must be an object.
type wordList struct {
	Words []string `json:"words" jsonschema:"related words or very short phrases"`
}

type schemas struct {
	array    *jsonschema.Resolved
	object   *jsonschema.Resolved
	objectJS *jsonschema.Schema
}

var (
	schemaOnce sync.Once
	schemaSet  schemas
	schemaErr  error
)

func loadSchemas() (schemas, error) {
	schemaOnce.Do(func() {
		arr, err := jsonschema.For[[]string](nil)
		if err != nil {
			schemaErr = fmt.Errorf("llm: array schema: %w", err)
			return
		}
		obj, err := jsonschema.For[wordList](nil)
		if err != nil {
			schemaErr = fmt.Errorf("llm: object schema: %w", err)
			return
		}
		if schemaSet.array, err = arr.Resolve(nil); err != nil {
			schemaErr = fmt.Errorf("llm: resolve array schema: %w", err)
			return
		}
		if schemaSet.object, err = obj.Resolve(nil); err != nil {
			schemaErr = fmt.Errorf("llm: resolve object schema: %w", err)
			return
		}
		schemaSet.objectJS = obj
	})
	return schemaSet, schemaErr
}

// WordListSchema is the JSON schema of {"words": [string]} for structured-output requests.
func WordListSchema() (map[string]any, error) {
	s, err := loadSchemas()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(s.objectJS)
	if err != nil {
		return nil, fmt.Errorf("llm: marshal schema: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("llm: unmarshal schema: %w", err)
	}
	return out, nil
}

// DecodeWordList parses model output that is either a JSON array of strings or an
// object carrying one under "words". Blank output decodes to an empty list.
func DecodeWordList(text string) ([]string, error) {
	text = stripFences(text)
	if text == "" {
		return nil, nil
	}
	s, err := loadSchemas()
	if err != nil {
		return nil, err
	}
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("llm: parse response: %w", err)
	}
	if _, ok := raw.(map[string]any); ok {
		if err := s.object.Validate(raw); err != nil {
			return nil, fmt.Errorf("llm: response violates schema: %w", err)
		}
		var wl wordList
		if err := json.Unmarshal([]byte(text), &wl); err != nil {
			return nil, fmt.Errorf("llm: parse response: %w", err)
		}
		return wl.Words, nil
	}
	if err := s.array.Validate(raw); err != nil {
		return nil, fmt.Errorf("llm: response violates schema: %w", err)
	}
	var words []string
	if err := json.Unmarshal([]byte(text), &words); err != nil {
		return nil, fmt.Errorf("llm: parse response: %w", err)
	}
	return words, nil
}

// stripFences removes a surrounding ``` block some models add despite JSON mode.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
