package feedback

import "github.com/JaimeStill/autou/pkg/openapi"

var submitOp = &openapi.Operation{
	Summary:     "Submit feedback",
	Description: "Creates or replaces the feedback for a classification.",
	RequestBody: openapi.RequestBodyJSON("FeedbackRequest", true),
	Responses: map[int]*openapi.Response{
		204: {Description: "Feedback stored"},
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
		500: openapi.ResponseRef("InternalError"),
		503: openapi.ResponseRef("ServiceUnavailable"),
	},
}

var findOp = &openapi.Operation{
	Summary: "Find feedback by classification",
	Parameters: []*openapi.Parameter{
		openapi.PathParam("classification_id", &openapi.Schema{Type: "string", Format: "uuid"}),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Stored feedback", "Feedback"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
		503: openapi.ResponseRef("ServiceUnavailable"),
	},
}

var listOp = &openapi.Operation{
	Summary:     "List feedback",
	Description: "Returns a page of feedback joined with the judged classification, newest first unless sort is given.",
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("page", "1-based page number", &openapi.Schema{Type: "integer"}),
		openapi.QueryParam("page_size", "", &openapi.Schema{Type: "integer"}),
		openapi.QueryParam("sort", "Comma-separated fields, prefix with - for descending", &openapi.Schema{Type: "string"}),
		openapi.QueryParam("helpful", "", &openapi.Schema{Type: "boolean"}),
		openapi.QueryParam("reason_code", "", &openapi.Schema{Type: "string", Enum: reasonCodes}),
		openapi.QueryParam("label", "", &openapi.Schema{Type: "string", Enum: []any{"Produtivo", "Improdutivo"}}),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Feedback page", "FeedbackPage"),
		400: openapi.ResponseRef("BadRequest"),
		500: openapi.ResponseRef("InternalError"),
		503: openapi.ResponseRef("ServiceUnavailable"),
	},
}

var reasonCodes = []any{"WRONG_INTENT", "TONE", "MISSING_INFO", "LOW_CONF", "OTHER"}

var schemas = map[string]*openapi.Schema{
	"FeedbackRequest": {
		Type:     "object",
		Required: []string{"classification_id", "helpful"},
		Properties: map[string]*openapi.Schema{
			"classification_id": {Type: "string", Format: "uuid"},
			"helpful":           {Type: "boolean"},
			"reason_code":       {Type: "string", Enum: reasonCodes},
		},
	},
	"Feedback": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"feedback_id":       {Type: "string", Format: "uuid"},
			"ts_utc":            {Type: "string", Format: "date-time"},
			"classification_id": {Type: "string", Format: "uuid"},
			"helpful":           {Type: "boolean"},
			"reason_code":       {Type: "string", Enum: reasonCodes},
			"label":             {Type: "string"},
			"template_code":     {Type: "string"},
		},
	},
	"FeedbackPage": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        {Type: "array", Items: openapi.SchemaRef("Feedback")},
			"total":       {Type: "integer"},
			"page":        {Type: "integer"},
			"page_size":   {Type: "integer"},
			"total_pages": {Type: "integer"},
		},
	},
}
