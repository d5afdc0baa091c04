// internal/service/template_service.go
package service

import (
	"strings"
)

// ResolveTemplate substitutes {{link}} and {{name}} in body. It is a pure
// function: values are inserted verbatim, with no escaping or validation.
// Escaping is the rendering collaborator's responsibility.
func ResolveTemplate(body, link, name string) string {
	result := strings.ReplaceAll(body, "{{link}}", link)
	result = strings.ReplaceAll(result, "{{name}}", name)
	return result
}
