package routes

import (
	"net/http"

	"github.com/JaimeStill/autou/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler.
// OpenAPI is optional and is published when the route is registered against a spec.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}
