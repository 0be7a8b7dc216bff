package catalog

// catalogSchema is the structural contract for a grade catalog file:
// grade -> subject -> chapter/batch -> list of typed items. It is kept
// deliberately loose beyond the nesting shape; individual items with
// missing fields are handled by the normalizer, not rejected here.
const catalogSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"additionalProperties": {
			"type": "object",
			"additionalProperties": {
				"type": "array",
				"items": {
					"type": "object",
					"required": ["type"],
					"properties": {
						"id": {"type": "string"},
						"title": {"type": "string"},
						"type": {"type": "string"},
						"file_upload": {"type": "array"},
						"embed_link": {"type": "array"}
					}
				}
			}
		}
	}
}`
