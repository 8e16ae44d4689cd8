package classifications

import "github.com/JaimeStill/autou/pkg/openapi"

var errorResponses = map[int]*openapi.Response{
	400: openapi.ResponseRef("BadRequest"),
	500: openapi.ResponseRef("InternalError"),
	503: openapi.ResponseRef("ServiceUnavailable"),
}

func withErrors(ok *openapi.Response) map[int]*openapi.Response {
	responses := map[int]*openapi.Response{200: ok}
	for code, r := range errorResponses {
		responses[code] = r
	}
	return responses
}

var healthOp = &openapi.Operation{
	Summary:     "Service health",
	Description: "Reports liveness and the metadata of the deployed model.",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Service is up", "Health"),
	},
}

var classifyOp = &openapi.Operation{
	Summary:     "Classify an email",
	Description: "Labels one email as Produtivo or Improdutivo and suggests a reply.",
	RequestBody: openapi.RequestBodyJSON("ClassifyRequest", true),
	Responses:   withErrors(openapi.ResponseJSON("Classification result", "Classification")),
}

var classifyBatchOp = &openapi.Operation{
	Summary:     "Classify a batch of emails",
	Description: "Labels every email with a single scorer call. Results keep input order.",
	RequestBody: openapi.RequestBodyJSON("BatchRequest", true),
	Responses:   withErrors(openapi.ResponseJSON("Classification results", "BatchResult")),
}

var schemas = map[string]*openapi.Schema{
	"ClassifyRequest": {
		Type:     "object",
		Required: []string{"text"},
		Properties: map[string]*openapi.Schema{
			"text": {Type: "string", Description: "Email body; trimmed before scoring"},
		},
	},
	"BatchRequest": {
		Type:     "object",
		Required: []string{"texts"},
		Properties: map[string]*openapi.Schema{
			"texts": {Type: "array", Items: &openapi.Schema{Type: "string"}},
		},
	},
	"Classification": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"classification_id": {Type: "string", Format: "uuid"},
			"label":             {Type: "string", Enum: []any{"Produtivo", "Improdutivo"}},
			"score_produtivo":   openapi.Bounds(openapi.Schema{Type: "number", Description: "Probability of Produtivo, rounded to 3 decimals"}, 0, 1),
			"threshold_used":    openapi.Bounds(openapi.Schema{Type: "number"}, 0, 1),
			"suggestion":        {Type: "string"},
		},
	},
	"BatchResult": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"results": {Type: "array", Items: openapi.SchemaRef("Classification")},
		},
	},
	"Health": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"status":          {Type: "string", Example: "ok"},
			"model_version":   {Type: "string"},
			"embedding_model": {Type: "string"},
			"threshold":       openapi.Bounds(openapi.Schema{Type: "number"}, 0, 1),
		},
	},
}
