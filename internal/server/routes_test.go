package server

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/opsdesk/salesdesk/internal/clock"
	"github.com/opsdesk/salesdesk/internal/config"
	"github.com/opsdesk/salesdesk/internal/observability"
	trackingdomain "github.com/opsdesk/salesdesk/internal/tracking/domain"
	trackingservice "github.com/opsdesk/salesdesk/internal/tracking/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewEngine(observability.Config{LogLevel: "info"}, nil)
}

func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&trackingdomain.ClickTracking{},
		&trackingdomain.WebhookEvent{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	trackingSvc := trackingservice.New(trackingservice.Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: fake,
	})

	srv := &Server{
		engine:      newTestEngine(t),
		cfg:         config.Config{ZoomSecretToken: "zoom-secret"},
		log:         zap.NewNop(),
		genID:       node,
		clock:       fake,
		trackingSvc: trackingSvc,
	}
	srv.registerDashboardRoutes()
	srv.registerIntegrationRoutes()
	return srv, db
}

func TestUnknownAPIRouteReturns404WithPath(t *testing.T) {
	engine := newTestEngine(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/unknown-route", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Not found", body["error"])
	require.Equal(t, "unknown-route", body["path"])
}

func TestUnknownRouteOutsideAPIHasNoPathField(t *testing.T) {
	engine := newTestEngine(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Not found", body["error"])
	require.NotContains(t, body, "path")
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/current-setter", nil)
	srv.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestStoreFBCLIDHeaderPriority(t *testing.T) {
	srv, db := newTestServer(t)

	cases := []struct {
		name    string
		headers map[string]string
		wantIP  string
	}{
		{
			name: "x-forwarded-for wins",
			headers: map[string]string{
				"x-forwarded-for":  "203.0.113.7, 10.0.0.1",
				"x-real-ip":        "198.51.100.2",
				"cf-connecting-ip": "192.0.2.3",
			},
			wantIP: "203.0.113.7",
		},
		{
			name: "x-real-ip next",
			headers: map[string]string{
				"x-real-ip":        "198.51.100.2",
				"cf-connecting-ip": "192.0.2.3",
			},
			wantIP: "198.51.100.2",
		},
		{
			name: "cf-connecting-ip last",
			headers: map[string]string{
				"cf-connecting-ip": "192.0.2.3",
			},
			wantIP: "192.0.2.3",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payload, _ := json.Marshal(map[string]string{
				"fbclid":             "fb.click." + tc.wantIP,
				"calendly_event_uri": "https://api.calendly.com/scheduled_events/abc",
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/store-fbclid", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			for key, value := range tc.headers {
				req.Header.Set(key, value)
			}
			srv.engine.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)

			var row trackingdomain.ClickTracking
			require.NoError(t, db.Where("fbclid = ?", "fb.click."+tc.wantIP).First(&row).Error)
			require.Equal(t, tc.wantIP, row.IPAddress)
		})
	}
}

func TestStoreFBCLIDRequiresFBCLID(t *testing.T) {
	srv, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/store-fbclid", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	srv.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
}

func TestZoomURLValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	payload, _ := json.Marshal(map[string]any{
		"event":   "endpoint.url_validation",
		"payload": map[string]string{"plainToken": "abc123"},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/zoom-webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	srv.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	mac := hmac.New(sha256.New, []byte("zoom-secret"))
	mac.Write([]byte("abc123"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "abc123", body["plainToken"])
	require.Equal(t, hex.EncodeToString(mac.Sum(nil)), body["encryptedToken"])
}

func TestZoomMeetingEventRecorded(t *testing.T) {
	srv, db := newTestServer(t)

	payload, _ := json.Marshal(map[string]any{
		"event":   "meeting.started",
		"payload": map[string]string{},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/zoom-webhook", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	srv.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var row trackingdomain.WebhookEvent
	require.NoError(t, db.Where("provider = ? AND event_type = ?", "zoom", "meeting.started").First(&row).Error)
}

func TestListWebhookEvents(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, event := range []string{"meeting.started", "meeting.ended"} {
		payload, _ := json.Marshal(map[string]any{
			"event":   event,
			"payload": map[string]string{},
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/zoom-webhook", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		srv.engine.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/webhook-events?provider=zoom&limit=1", nil)
	srv.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []struct {
			Provider  string `json:"provider"`
			EventType string `json:"event_type"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	require.Equal(t, "zoom", body.Data[0].Provider)
	// Newest first.
	require.Equal(t, "meeting.ended", body.Data[0].EventType)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/v1/webhook-events?provider=calendly", nil)
	srv.engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var empty struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &empty))
	require.Empty(t, empty.Data)
}

func TestHealthEndpoint(t *testing.T) {
	engine := newTestEngine(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}
