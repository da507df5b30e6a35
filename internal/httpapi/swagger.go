//go:build swagger

package httpapi

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

// MountSwagger serves the generated OpenAPI docs under /docs. Run
// `swag init -g cmd/schedd/docs.go` before building with -tags=swagger.
func MountSwagger(r chi.Router) {
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
