package gqlapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/anonto42/bonfire-demo/backend/internal/middleware"
	"github.com/anonto42/bonfire-demo/backend/internal/services"
	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Request is a GraphQL-over-HTTP request body.
type Request struct {
	Query         string                 `json:"query" query:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName" query:"operationName"`
}

// Handler serves the schema over HTTP.
type Handler struct {
	schema graphql.Schema
	auth   *services.AuthService
	log    *logrus.Entry
}

// NewHandler builds the schema and returns a Handler serving it.
func NewHandler(bonfire services.BonfireService, auth *services.AuthService, log *logrus.Entry) (*Handler, error) {
	schema, err := NewSchema(NewResolver(bonfire, auth))
	if err != nil {
		return nil, err
	}
	return &Handler{schema: schema, auth: auth, log: log}, nil
}

// RegisterRoutes mounts POST and GET /graphql. Authentication is optional at
// the transport; resolvers that need a caller report auth errors themselves.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	optional := middleware.OptionalJWTMiddleware(h.auth)
	e.POST("/graphql", h.Serve, optional)
	e.GET("/graphql", h.Serve, optional)
}

// Serve executes a query from a JSON body (POST) or URL parameters (GET).
func (h *Handler) Serve(c echo.Context) error {
	var req Request
	if c.Request().Method == http.MethodGet {
		req.Query = c.QueryParam("query")
		req.OperationName = c.QueryParam("operationName")
		if raw := c.QueryParam("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				return c.JSON(http.StatusBadRequest, errorBody("Variables are invalid JSON."))
			}
		}
	} else if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("POST body sent invalid JSON."))
	}

	if req.Query == "" {
		return c.JSON(http.StatusBadRequest, errorBody("Must provide query string."))
	}

	claims, _ := middleware.ClaimsFromContext(c)
	ctx := WithViewer(c.Request().Context(), claims, middleware.AuthErrorFromContext(c))

	result := h.Execute(ctx, req)
	if result.HasErrors() {
		h.log.WithFields(logrus.Fields{
			"operation": req.OperationName,
			"errors":    len(result.Errors),
		}).Debug("GraphQL request returned errors")
	}
	return c.JSON(http.StatusOK, result)
}

// Execute runs req against the schema.
func (h *Handler) Execute(ctx context.Context, req Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

func errorBody(message string) echo.Map {
	return echo.Map{"errors": []echo.Map{{"message": message}}}
}
