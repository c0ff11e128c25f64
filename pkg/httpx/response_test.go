package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ghuser/expense-tracker/pkg/httpx"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		payload  any
		wantBody string
	}{
		{"object", http.StatusCreated, map[string]int64{"id": 1}, `{"id":1}`},
		{"empty list stays an array", http.StatusOK, []string{}, `[]`},
		{"parallel arrays", http.StatusOK, map[string]any{"labels": []string{"food"}, "values": []float64{25}}, `{"labels":["food"],"values":[25]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			httpx.JSON(w, tt.status, tt.payload)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	httpx.JSONError(w, http.StatusNotFound, "Item not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Item not found"}`, w.Body.String())
}
