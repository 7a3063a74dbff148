package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"fitstudio/internal/api"
	"fitstudio/internal/booking"
	"fitstudio/internal/catalog"
	"fitstudio/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		DefaultTimezone: "Asia/Kolkata",
		RateLimitRPS:    1000,
		RateLimitBurst:  1000,
	}

	upcoming := time.Now().Add(48 * time.Hour)
	catalogService := catalog.NewService(catalog.NewMemoryRepository(), time.Second)
	require.NoError(t, catalogService.Seed(context.Background(), []catalog.ClassSession{
		{ID: 1, Name: "Yoga", StartsAt: upcoming, Instructor: "A", Capacity: 5, AvailableSlots: 5},
		{ID: 2, Name: "HIIT", StartsAt: upcoming, Instructor: "B", Capacity: 0, AvailableSlots: 0},
		{ID: 3, Name: "Spin", StartsAt: upcoming, Instructor: "C", Capacity: 3, AvailableSlots: 3},
		{ID: 4, Name: "Past", StartsAt: time.Now().Add(-time.Hour), Instructor: "D", Capacity: 3, AvailableSlots: 3},
	}))
	bookingService := booking.NewService(booking.NewMemoryRepository(), catalogService, nil, time.Second)

	return New(cfg, catalogService, bookingService).Handler()
}

func do(h http.Handler, method, url, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRoot(t *testing.T) {
	w := do(newTestServer(t), http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "message")
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t)

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health", "").Code)

	w := do(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fitstudio_http_requests_total")
}

func TestListClasses_OnlyUpcoming(t *testing.T) {
	w := do(newTestServer(t), http.MethodGet, "/classes", "")

	require.Equal(t, http.StatusOK, w.Code)
	var classes []catalog.ClassResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &classes))
	require.Len(t, classes, 3)
	for _, c := range classes {
		assert.NotEqual(t, "Past", c.Name)
		assert.Contains(t, c.Datetime, "+05:30")
	}
}

func TestBookingFlow(t *testing.T) {
	h := newTestServer(t)

	w := do(h, http.MethodPost, "/book", `{"class_id":1,"client_name":"shashi","client_email":"shashi@example.com"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(h, http.MethodGet, "/bookings?email=shashi@example.com", "")
	require.Equal(t, http.StatusOK, w.Code)
	var bookings []booking.BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bookings))
	require.Len(t, bookings, 1)
	assert.Equal(t, 1, bookings[0].ClassID)
	assert.Equal(t, "shashi", bookings[0].ClientName)

	w = do(h, http.MethodGet, "/classes", "")
	var classes []catalog.ClassResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &classes))
	assert.Equal(t, 4, classes[0].AvailableSlots)
}

func TestBookingErrors(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{"class not found", `{"class_id":14,"client_name":"rama1","client_email":"rama1@example.com"}`, http.StatusNotFound, "Class not found"},
		{"no slots", `{"class_id":2,"client_name":"NoSlot","client_email":"noslot@example.com"}`, http.StatusBadRequest, "No slots available"},
		{"invalid email", `{"class_id":1,"client_name":"Invalid","client_email":"not-an-email"}`, http.StatusUnprocessableEntity, "validation failed"},
		{"missing name", `{"class_id":1,"client_email":"missing@example.com"}`, http.StatusUnprocessableEntity, "validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(h, http.MethodPost, "/book", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body api.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}

func TestConcurrentBookingsForLastSlots(t *testing.T) {
	h := newTestServer(t)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		statuses = map[int]int{}
	)
	for i := 0; i < 10; i++ {
		body := fmt.Sprintf(`{"class_id":3,"client_name":"client%d","client_email":"c%d@example.com"}`, i, i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := do(h, http.MethodPost, "/book", body)
			mu.Lock()
			statuses[w.Code]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, statuses[http.StatusCreated])
	assert.Equal(t, 7, statuses[http.StatusBadRequest])
}
