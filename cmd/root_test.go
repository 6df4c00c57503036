package cmd_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/samwightt/archivist/cmd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testConfig        = "testdata/archivist.yaml"
	testIntrospection = "testdata/archive.json"
	testSchema        = "testdata/schema.graphql"
)

const peopleResponse = `{"data": {"people": [
	{"lastName": "Doe", "firstName": "Jane", "birthDate": "1990-04-02", "age": 34, "status": "ACTIVE"},
	{"lastName": "Doe", "firstName": "John", "birthDate": null, "age": 40, "status": "ARCHIVED"}
]}}`

// archiveArgs appends the test config and the saved introspection response.
func archiveArgs(args ...string) []string {
	return append(args, "-c", testConfig, "-i", testIntrospection)
}

// archiveServer serves the introspection response and answers every other
// query with body.
type archiveServer struct {
	*httptest.Server

	mu      sync.Mutex
	queries []string
}

func newArchiveServer(t *testing.T, status int, body string) *archiveServer {
	t.Helper()
	introspection, err := os.ReadFile(testIntrospection)
	require.NoError(t, err)

	s := &archiveServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		if strings.Contains(query, "__schema") {
			_, _ = w.Write(introspection)
			return
		}
		s.mu.Lock()
		s.queries = append(s.queries, query)
		s.mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

// Endpoint is the URL the escaped query is appended to.
func (s *archiveServer) Endpoint() string {
	return s.URL + "/graphql?query="
}

func (s *archiveServer) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

func TestRoot_InvalidFormat(t *testing.T) {
	_, _, err := cmd.ExecuteWithArgs(archiveArgs("operations", "-f", "yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format: yaml")
}

func TestRoot_MissingExplicitConfig(t *testing.T) {
	_, _, err := cmd.ExecuteWithArgs([]string{"operations", "-c", "testdata/missing.yaml", "-s", testSchema})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestRoot_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archivist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("required_fields:\n  - min: 1\n"), 0644))

	_, _, err := cmd.ExecuteWithArgs([]string{"operations", "-c", path, "-s", testSchema})
	require.Error(t, err)
}

func TestRoot_MissingSchemaFile(t *testing.T) {
	_, _, err := cmd.ExecuteWithArgs([]string{"operations", "-c", testConfig, "-s", "testdata/missing.graphql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file does not exist: testdata/missing.graphql")
}

func TestRoot_MissingIntrospectionFile(t *testing.T) {
	_, _, err := cmd.ExecuteWithArgs([]string{"operations", "-c", testConfig, "-i", "testdata/missing.json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "introspection file does not exist")
}

func TestRoot_EndpointFromConfigEnv(t *testing.T) {
	server := newArchiveServer(t, http.StatusOK, peopleResponse)
	t.Setenv("ARCHIVIST_TEST_ENDPOINT", server.Endpoint())

	path := filepath.Join(t.TempDir(), "archivist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("url: ${ARCHIVIST_TEST_ENDPOINT}\n"), 0644))

	stdout, _, err := cmd.ExecuteWithArgs([]string{"operations", "-c", path, "-f", "text"})
	require.NoError(t, err)
	assert.Contains(t, stdout, "people(query: PersonQuery): [Person] # People")
}

func TestRoot_VerboseLogsRequests(t *testing.T) {
	server := newArchiveServer(t, http.StatusOK, peopleResponse)

	_, stderr, err := cmd.ExecuteWithArgs([]string{"operations", "-c", testConfig, "-e", server.Endpoint(), "-f", "text", "-v"})
	require.NoError(t, err)
	assert.Contains(t, stderr, "graphql request completed")
	assert.Contains(t, stderr, "catalog built")
}
