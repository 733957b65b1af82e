package capacityapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/hospitalops/internal/domain/entities"
	apperrors "github.com/zatekoja/hospitalops/pkg/errors"
)

func testOptions() Options {
	return Options{Timeout: time.Second, FailureThreshold: 2, OpenTimeout: time.Minute}
}

func TestFetchCapacity_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/capacity", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(entities.CapacitySnapshot{
			HospitalID:      "HSP-002",
			HospitalName:    "East Hospital",
			BedAvailability: map[string]entities.BedAvailability{"cardiology": {Total: 10, Available: 4}},
			Status:          entities.HospitalStatusOperational,
		})
	}))
	defer server.Close()

	client := NewClient(map[string]string{"HSP-002": server.URL + "/"}, testOptions())
	snapshot, err := client.FetchCapacity(t.Context(), "HSP-002")
	require.NoError(t, err)

	assert.Equal(t, "East Hospital", snapshot.HospitalName)
	assert.Equal(t, 4, snapshot.BedAvailability["cardiology"].Available)
}

func TestFetchCapacity_UnknownPeer(t *testing.T) {
	client := NewClient(nil, testOptions())

	_, err := client.FetchCapacity(t.Context(), "HSP-404")
	assert.Equal(t, apperrors.ErrorTypeNotFound, apperrors.TypeOf(err))
}

func TestFetchCapacity_BreakerOpensAfterFailures(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(map[string]string{"HSP-003": server.URL}, testOptions())

	for i := 0; i < 5; i++ {
		_, err := client.FetchCapacity(t.Context(), "HSP-003")
		assert.Equal(t, apperrors.ErrorTypeExternal, apperrors.TypeOf(err))
	}
	assert.Equal(t, int32(2), hits.Load())
}

func TestPeers_Sorted(t *testing.T) {
	client := NewClient(map[string]string{"HSP-009": "http://a", "HSP-002": "http://b"}, testOptions())
	assert.Equal(t, []string{"HSP-002", "HSP-009"}, client.Peers())
}
