// Package api embeds the OpenAPI description served at /api/openapi.yaml.
package api

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
