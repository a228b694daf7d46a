package gateway

import "github.com/xeipuuv/gojsonschema"

// Structural contract for submit/edit responses. Enum values are not
// pinned here: unknown category or priority codes are legal wire data
// that the normalizer degrades safely.
const analysisResponseSchema = `{
	"type": "object",
	"properties": {
		"id": {"type": "integer"},
		"maskedText": {"type": "string"},
		"category_code": {"type": "string"},
		"priority_code": {"type": "string"},
		"suggestedReply": {"type": "string"},
		"sources": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"id": {"type": "string"},
					"title": {"type": "string"},
					"snippet": {"type": "string"},
					"similarity": {"type": "number", "minimum": 0, "maximum": 1}
				},
				"required": ["id", "title"]
			}
		},
		"categoryConfidence": {"type": "number", "minimum": 0, "maximum": 1},
		"urgencyConfidence": {"type": "number", "minimum": 0, "maximum": 1},
		"status": {"type": "string"}
	},
	"required": ["id", "category_code", "priority_code", "suggestedReply", "categoryConfidence", "urgencyConfidence"]
}`

var analysisSchemaLoader = gojsonschema.NewStringLoader(analysisResponseSchema)

func validateAnalysisPayload(op string, payload []byte) error {
	result, err := gojsonschema.Validate(analysisSchemaLoader, gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return &ContractError{Op: op, Violations: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}
	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return &ContractError{Op: op, Violations: violations}
}
