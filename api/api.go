// Package api embeds the OpenAPI document of the ordering service and registers it
// with swag so the Swagger UI can serve it.
package api

import (
	"context"
	_ "embed"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

//go:embed openapi.json
var document []byte

type swaggerDoc struct{}

func (swaggerDoc) ReadDoc() string {
	return string(document)
}

func init() {
	swag.Register(swag.Name, swaggerDoc{})
}

// Document returns the raw OpenAPI document.
func Document() []byte {
	return document
}

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(document)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}
	return doc, nil
}
