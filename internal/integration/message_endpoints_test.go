//go:build dev && integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/arisros/one-time-message/internal/dtos"
)

// -----------------------------------------------------------------------------
// Globals
// -----------------------------------------------------------------------------

var (
	baseURL string
)

// -----------------------------------------------------------------------------
// Suite bootstrap
// -----------------------------------------------------------------------------

func TestMain(m *testing.M) {
	baseURL = os.Getenv("APP_URL_FROM_COMPOSE_NETWORK")
	if baseURL == "" {
		fmt.Println("APP_URL_FROM_COMPOSE_NETWORK env var is missing")
		os.Exit(1)
	}

	baseURL = strings.TrimRight(baseURL, "/")

	os.Exit(m.Run())
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func createMessage(t *testing.T, message string) string {
	t.Helper()

	payload, err := json.Marshal(dtos.CreateMessageRequest{Message: message})
	require.NoError(t, err)

	resp, err := http.Post(baseURL+"/api/v1/message", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created dtos.CreateMessageResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.ID)
	return created.ID
}

func getStatus(t *testing.T, path string) (int, []byte) {
	t.Helper()

	resp, err := http.Get(baseURL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, buf.Bytes()
}

// -----------------------------------------------------------------------------
// Happy path — the full one-time lifecycle over the wire
// -----------------------------------------------------------------------------

func TestMessageLifecycle(t *testing.T) {
	id := createMessage(t, "integration hello")

	// Probe — non-consuming, may be repeated.
	status, _ := getStatus(t, "/api/v1/available/"+id)
	require.Equal(t, http.StatusOK, status)
	status, _ = getStatus(t, "/api/v1/available/"+id)
	require.Equal(t, http.StatusOK, status)

	// The single consuming read.
	status, body := getStatus(t, "/api/v1/message/"+id)
	require.Equal(t, http.StatusOK, status)

	var fetched dtos.FetchMessageResponse
	require.NoError(t, json.Unmarshal(body, &fetched))
	require.Equal(t, "integration hello", fetched.Message)

	// Everything afterwards is a 404.
	status, _ = getStatus(t, "/api/v1/message/"+id)
	require.Equal(t, http.StatusNotFound, status)
	status, _ = getStatus(t, "/api/v1/available/"+id)
	require.Equal(t, http.StatusNotFound, status)
}

// -----------------------------------------------------------------------------
// Negative paths
// -----------------------------------------------------------------------------

func TestUnknownAndMalformedIDs(t *testing.T) {
	status, _ := getStatus(t, "/api/v1/message/"+uuid.NewString())
	require.Equal(t, http.StatusNotFound, status)

	status, _ = getStatus(t, "/api/v1/message/not-a-uuid")
	require.Equal(t, http.StatusNotFound, status)
}

func TestRejectsEmptyPayload(t *testing.T) {
	resp, err := http.Post(baseURL+"/api/v1/message", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	status, _ := getStatus(t, "/health")
	require.Equal(t, http.StatusOK, status)
}
