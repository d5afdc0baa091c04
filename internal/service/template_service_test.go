package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/unclebandit/phishsim-backend/internal/service"
)

func TestResolveTemplate(t *testing.T) {
	got := service.ResolveTemplate("hi {{name}}, go to {{link}}", "http://x/1", "Sam")
	assert.Equal(t, "hi Sam, go to http://x/1", got)
}

func TestResolveTemplateRepeatedPlaceholders(t *testing.T) {
	got := service.ResolveTemplate("{{link}} {{link}} {{name}}", "L", "N")
	assert.Equal(t, "L L N", got)
}

func TestResolveTemplateNoPlaceholders(t *testing.T) {
	body := "nothing to substitute here"
	assert.Equal(t, body, service.ResolveTemplate(body, "http://x/1", "Sam"))
}

func TestResolveTemplateIsPure(t *testing.T) {
	first := service.ResolveTemplate("hi {{name}}", "l", "Sam")
	second := service.ResolveTemplate("hi {{name}}", "l", "Sam")
	assert.Equal(t, first, second)
}

func TestResolveTemplateVerbatimValues(t *testing.T) {
	// Values are inserted without escaping; sanitization is the renderer's job.
	got := service.ResolveTemplate("go to {{link}}", "<script>alert(1)</script>", "x")
	assert.Equal(t, "go to <script>alert(1)</script>", got)
}
