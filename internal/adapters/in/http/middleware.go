package http

import (
	"context"
	_ "embed"
	nethttp "net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
)

//go:embed api/openapi.yaml
var openapiSpec []byte

// NewRequestValidator builds an echo middleware validating every request
// against the embedded OpenAPI document. Requests for paths outside the
// document pass through untouched.
func NewRequestValidator() (echo.MiddlewareFunc, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, err
	}
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			request := c.Request()
			route, pathParams, findErr := router.FindRoute(request)
			if findErr != nil {
				// Paths outside the document (health checks) skip validation.
				return next(c)
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    request,
				PathParams: pathParams,
				Route:      route,
			}
			if validateErr := openapi3filter.ValidateRequest(request.Context(), input); validateErr != nil {
				return c.JSON(nethttp.StatusBadRequest, Error{
					Code:    nethttp.StatusBadRequest,
					Message: validateErr.Error(),
				})
			}

			return next(c)
		}
	}, nil
}
