package results

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itchyny/gojq"
)

// Filter runs a jq expression over the records of rows, given as one JSON
// array, and returns every value it emits.
func Filter(rows []Row, expression string) ([]any, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}

	records := make([]map[string]any, len(rows))
	for i, r := range rows {
		records[i] = r.Values
	}
	// gojq only accepts plain JSON values, so drop json.Number.
	b, err := json.Marshal(records)
	if err != nil {
		return nil, err
	}
	var input any
	if err := json.Unmarshal(b, &input); err != nil {
		return nil, err
	}

	out := make([]any, 0)
	iter := code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := v.(error); isErr {
			var haltErr *gojq.HaltError
			if errors.As(err, &haltErr) && haltErr.Value() == nil {
				break
			}
			return nil, fmt.Errorf("jq: %w", err)
		}
		out = append(out, v)
	}
	return out, nil
}
