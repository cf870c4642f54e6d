package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadBodyIsRepeatable(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": 2, "failed": 1}`))
	})

	rr := DoRequest(handler, httptest.NewRequest(http.MethodGet, "/", nil))

	// Several assertions against the same recorder must each see the
	// full body.
	AssertJSONContains(t, rr, "success", float64(2))
	AssertJSONContains(t, rr, "failed", float64(1))
	AssertJSONHasKey(t, rr, "success")
	assert.NotEmpty(t, ReadBody(t, rr))
}
