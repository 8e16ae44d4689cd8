package openapi

// Info is the document's info object.
type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// Server is one entry of the document's servers list.
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// PathItem holds the operations mounted on one path. The service only
// exposes GET and POST.
type PathItem struct {
	Get  *Operation `json:"get,omitempty"`
	Post *Operation `json:"post,omitempty"`
}

type Operation struct {
	Summary     string            `json:"summary,omitempty"`
	Description string            `json:"description,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Parameters  []*Parameter      `json:"parameters,omitempty"`
	RequestBody *RequestBody      `json:"requestBody,omitempty"`
	Responses   map[int]*Response `json:"responses"`
}

type Parameter struct {
	Name        string  `json:"name"`
	In          string  `json:"in"`
	Required    bool    `json:"required,omitempty"`
	Description string  `json:"description,omitempty"`
	Schema      *Schema `json:"schema"`
}

type RequestBody struct {
	Description string                `json:"description,omitempty"`
	Required    bool                  `json:"required,omitempty"`
	Content     map[string]*MediaType `json:"content"`
}

// Response is either inline (Description, Content) or a $ref into
// components.responses.
type Response struct {
	Description string                `json:"description,omitempty"`
	Content     map[string]*MediaType `json:"content,omitempty"`
	Ref         string                `json:"$ref,omitempty"`
}

type MediaType struct {
	Schema *Schema `json:"schema,omitempty"`
}

// Schema is the subset of JSON Schema the handlers describe their payloads with.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Format      string             `json:"format,omitempty"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Ref         string             `json:"$ref,omitempty"`
	Enum        []any              `json:"enum,omitempty"`
	Example     any                `json:"example,omitempty"`
	Minimum     *float64           `json:"minimum,omitempty"`
	Maximum     *float64           `json:"maximum,omitempty"`
}

type Components struct {
	Schemas   map[string]*Schema   `json:"schemas,omitempty"`
	Responses map[string]*Response `json:"responses,omitempty"`
}

func SchemaRef(name string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + name}
}

func ResponseRef(name string) *Response {
	return &Response{Ref: "#/components/responses/" + name}
}

// RequestBodyJSON is an application/json body of the named component schema.
func RequestBodyJSON(schema string, required bool) *RequestBody {
	return &RequestBody{
		Required: required,
		Content:  jsonContent(schema),
	}
}

// ResponseJSON is an application/json response of the named component schema.
func ResponseJSON(description, schema string) *Response {
	return &Response{
		Description: description,
		Content:     jsonContent(schema),
	}
}

// PathParam is a required path parameter.
func PathParam(name string, schema *Schema) *Parameter {
	return &Parameter{Name: name, In: "path", Required: true, Schema: schema}
}

// QueryParam is an optional query-string parameter.
func QueryParam(name, description string, schema *Schema) *Parameter {
	return &Parameter{Name: name, In: "query", Description: description, Schema: schema}
}

// Bounds returns a copy of s with inclusive numeric limits.
func Bounds(s Schema, minimum, maximum float64) *Schema {
	s.Minimum = &minimum
	s.Maximum = &maximum
	return &s
}

func jsonContent(schema string) map[string]*MediaType {
	return map[string]*MediaType{
		"application/json": {Schema: SchemaRef(schema)},
	}
}
