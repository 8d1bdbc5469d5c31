package router

import (
	"net/http"
	"path/filepath"
	"testing"

	"kamgar-sahayak/backend/pkg/di"
	"kamgar-sahayak/backend/pkg/errors"
	"kamgar-sahayak/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidatedRouter(t *testing.T) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New(logger.DefaultConfig())
	container := di.New(nil, log, nil)

	r := New(container)
	r.AddOpenAPIValidation(filepath.Join("testdata", "openapi.yaml"))
	r.SetupRoutes()
	return r
}

func TestSchemaRejectsNonConformingRequest(t *testing.T) {
	r := newValidatedRouter(t)

	// language is required by the schema but not by the binding tags, so a
	// rejection here proves the validator runs ahead of the handler
	w := serve(r, http.MethodPost, "/chat_api/chat", `{"user_id":"u1","query_text":"what is gratuity"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), errors.CodeValidation)
}

func TestSchemaAllowsConformingRequest(t *testing.T) {
	r := newValidatedRouter(t)

	w := serve(r, http.MethodPost, "/chat_api/chat",
		`{"user_id":"u1","query_text":"what is gratuity","language":"en"}`)

	// The request reaches the handler; without a collaborator it fails
	// upstream rather than at the schema gate
	assert.NotEqual(t, http.StatusBadRequest, w.Code)
}

func TestRoutesOutsideSchemaPassThrough(t *testing.T) {
	r := newValidatedRouter(t)

	w := serve(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
