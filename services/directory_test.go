package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/arogyam/health-portal/models"
)

func directoryClientFor(url string) *DirectoryClient {
	return &DirectoryClient{
		BaseURL:    url,
		HTTPClient: &http.Client{Timeout: 2 * time.Second},
	}
}

func TestDirectoryFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"external_id":"D-100","name":"Dr. Asha Verma","license_number":"MH-4411","specialty":"cardiology","status":"active","email":"asha@example.org","phone":"+91-98000"},
			{"external_id":"D-101","name":"Dr. Ravi Iyer","license_number":"MH-5120","specialty":"radiology","status":"inactive","email":"","phone":""}
		]`))
	}))
	defer server.Close()

	doctors, err := directoryClientFor(server.URL).Fetch(context.Background())
	assert.NoError(t, err)
	assert.Len(t, doctors, 2)
	assert.Equal(t, "D-100", doctors[0].ExternalID)
	assert.Equal(t, "cardiology", doctors[0].Specialty)
	assert.Equal(t, "inactive", doctors[1].Status)
}

func TestDirectoryFetchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := directoryClientFor(server.URL).Fetch(context.Background())
	assert.ErrorIs(t, err, models.ErrSyncUnavailable)
}

func TestDirectoryFetchMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"`))
	}))
	defer server.Close()

	_, err := directoryClientFor(server.URL).Fetch(context.Background())
	assert.ErrorIs(t, err, models.ErrSyncUnavailable)
}

func TestDirectoryFetchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening anymore

	_, err := directoryClientFor(server.URL).Fetch(context.Background())
	assert.ErrorIs(t, err, models.ErrSyncUnavailable)
}

func TestDirectoryFetchHonorsCancellation(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := directoryClientFor(server.URL).Fetch(ctx)
	assert.ErrorIs(t, err, models.ErrSyncUnavailable)
}
