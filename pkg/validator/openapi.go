package validator

import (
	"fmt"
	"net/http"
	"sync"

	"kamgar-sahayak/backend/pkg/errors"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"
)

// OpenAPIValidator checks incoming requests against the published API
// schema. Routes absent from the schema (the websocket upgrade, /metrics)
// pass through untouched.
type OpenAPIValidator struct {
	doc        *openapi3.T
	router     routers.Router
	schemaPath string
	mu         sync.RWMutex
}

// NewOpenAPIValidator loads and validates the schema at the given path
func NewOpenAPIValidator(schemaPath string) (*OpenAPIValidator, error) {
	doc, router, err := loadSchema(schemaPath)
	if err != nil {
		return nil, err
	}

	return &OpenAPIValidator{
		doc:        doc,
		router:     router,
		schemaPath: schemaPath,
	}, nil
}

func loadSchema(path string) (*openapi3.T, routers.Router, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load OpenAPI schema from %s: %w", path, err)
	}

	if err := doc.Validate(loader.Context); err != nil {
		return nil, nil, fmt.Errorf("invalid OpenAPI schema: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating OpenAPI router: %w", err)
	}

	return doc, router, nil
}

// ReloadSchema picks up schema edits without a restart
func (v *OpenAPIValidator) ReloadSchema() error {
	doc, router, err := loadSchema(v.schemaPath)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.doc = doc
	v.router = router
	return nil
}

// Middleware returns a gin middleware validating each request that matches
// a schema route. Rejections use the same error envelope as the rest of
// the API.
func (v *OpenAPIValidator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		v.mu.RLock()
		route, pathParams, err := v.router.FindRoute(c.Request)
		v.mu.RUnlock()
		if err != nil {
			// Not described by the schema; let the router decide
			c.Next()
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    c.Request,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				// Bearer auth is enforced by the JWT middleware, not here
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}

		if err := openapi3filter.ValidateRequest(c.Request.Context(), input); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":    errors.CodeValidation,
					"message": fmt.Sprintf("Request does not match the API schema: %v", err),
				},
			})
			return
		}

		c.Next()
	}
}
