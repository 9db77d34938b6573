package exchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/stemsi/ailit-assessment/internal/model"
)

// ErrParse is returned when an artifact is not a result document.
var ErrParse = errors.New("artifact is not a valid result document")

// ParsedResult is one dimension entry read from an artifact.
type ParsedResult struct {
	Answers model.Answers
	// Stored is the result recorded in the file, nil when it could not be read.
	Stored *model.DimensionResult
}

// ParsedDocument is the best-effort reading of an artifact.
type ParsedDocument struct {
	Participant  model.Participant
	Timestamp    string
	AverageLevel string
	Results      map[string]ParsedResult

	// DroppedAnswers lists "<dimension>/<question>" entries whose value was not numeric.
	DroppedAnswers []string
	// MalformedResults lists dimension ids whose entry was not an object.
	MalformedResults []string
}

// Parse reads an artifact. The document must be a JSON object with a user
// object; results, when present, must be an object. Everything below that
// is accepted field by field and defaults where it cannot be read.
func Parse(data []byte) (*ParsedDocument, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrParse)
	}

	rawUser, ok := top["user"]
	if !ok || isNull(rawUser) {
		return nil, fmt.Errorf("%w: missing user", ErrParse)
	}
	var user map[string]json.RawMessage
	if err := json.Unmarshal(rawUser, &user); err != nil || user == nil {
		return nil, fmt.Errorf("%w: user must be an object", ErrParse)
	}

	doc := &ParsedDocument{
		Participant: model.Participant{
			Name:           readString(user["name"]),
			SelfAssessment: readIntPtr(user["selfAssessment"]),
		},
		Timestamp:    readString(top["timestamp"]),
		AverageLevel: readString(top["averageLevel"]),
		Results:      make(map[string]ParsedResult),
	}

	rawResults, ok := top["results"]
	if !ok || isNull(rawResults) {
		return doc, nil
	}
	var results map[string]json.RawMessage
	if err := json.Unmarshal(rawResults, &results); err != nil {
		return nil, fmt.Errorf("%w: results must be an object", ErrParse)
	}

	for id, raw := range results {
		var entry map[string]json.RawMessage
		if err := json.Unmarshal(raw, &entry); err != nil || entry == nil {
			doc.MalformedResults = append(doc.MalformedResults, id)
			doc.Results[id] = ParsedResult{Answers: model.Answers{}}
			continue
		}

		pr := ParsedResult{Answers: model.Answers{}}
		var stored model.DimensionResult
		if err := json.Unmarshal(raw, &stored); err == nil {
			pr.Stored = &stored
		}

		var answers map[string]json.RawMessage
		if rawAnswers, ok := entry["raw_answers"]; ok && !isNull(rawAnswers) {
			if err := json.Unmarshal(rawAnswers, &answers); err != nil {
				doc.MalformedResults = append(doc.MalformedResults, id)
			}
		}
		for qid, v := range answers {
			n, ok := readInt(v)
			if !ok {
				doc.DroppedAnswers = append(doc.DroppedAnswers, id+"/"+qid)
				continue
			}
			pr.Answers[qid] = n
		}
		doc.Results[id] = pr
	}

	sort.Strings(doc.DroppedAnswers)
	sort.Strings(doc.MalformedResults)
	return doc, nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func readString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func readIntPtr(raw json.RawMessage) *int {
	n, ok := readInt(raw)
	if !ok {
		return nil
	}
	return &n
}

// readInt accepts a JSON number, truncated toward zero, or a string holding one.
func readInt(raw json.RawMessage) (int, bool) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
