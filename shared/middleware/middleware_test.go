package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yousuf64/shift"
)

func TestErrorMiddleware(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
		description    string
	}{
		{
			name:           "NoError",
			expectedStatus: http.StatusOK,
			description:    "Successful handlers are untouched",
		},
		{
			name:           "PlainError",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			description:    "Unclassified errors are internal errors",
		},
		{
			name:           "WrappedHTTPError",
			err:            fmt.Errorf("lookup: %w", NewHTTPError(http.StatusNotFound, errors.New("report not found"))),
			expectedStatus: http.StatusNotFound,
			description:    "The status of a wrapped HTTPError is used",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := shift.New()
			router.Use(CORSMiddleware)
			router.Use(ErrorMiddleware(slog.New(slog.DiscardHandler)))
			router.GET("/thing", func(w http.ResponseWriter, r *http.Request, route shift.Route) error {
				return tc.err
			})

			rr := httptest.NewRecorder()
			router.Serve().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/thing", nil))

			assert.Equal(t, tc.expectedStatus, rr.Code, tc.description)
			assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
