package server

import (
	"fmt"
	"net/http"
	"testing"

	leaddomain "github.com/opsdesk/salesdesk/internal/lead/domain"
	"github.com/opsdesk/salesdesk/internal/providers/upstream"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorStatuses(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"validation", leaddomain.ErrInvalidContact, http.StatusBadRequest, "validation_error"},
		{"not found", leaddomain.ErrNotFound, http.StatusNotFound, "not_found"},
		{"missing credentials", fmt.Errorf("%w: calendly token", upstream.ErrMissingCredentials), http.StatusServiceUnavailable, "service_unavailable"},
		{"upstream failure", fmt.Errorf("%w: ga status 500", upstream.ErrUpstream), http.StatusInternalServerError, "upstream_error"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, payload := mapError(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantType, payload.Type)
		})
	}
}
