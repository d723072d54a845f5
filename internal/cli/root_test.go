package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tasksphere/tasksphere/internal/config"
	"github.com/tasksphere/tasksphere/internal/store"
)

// writeTestConfig points the CLI at a throwaway backend and database
func writeTestConfig(t *testing.T) (configPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{}}`))
	}))
	t.Cleanup(server.Close)

	configPath = filepath.Join(dir, "config.json")
	dbPath = filepath.Join(dir, "test.db")
	data, err := json.Marshal(config.Config{APIURL: server.URL, DBPath: dbPath})
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath, dbPath
}

func TestWhoamiSignedOutReturnsError(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"whoami", "--config", configPath})

	if err := cmd.Execute(); err == nil {
		t.Fatal("expected an error when no session is stored")
	}
}

func TestWhoamiPrintsStoredUser(t *testing.T) {
	configPath, dbPath := writeTestConfig(t)

	settings, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	settings.Set(store.KeyToken, "opaque-token")
	settings.Set(store.KeyRefreshToken, "refresh")
	settings.Set(store.KeyUser, `{"id":"u1","name":"Ana","email":"ana@example.com"}`)
	if err := settings.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"whoami", "--config", configPath})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if got := out.String(); !strings.Contains(got, "Ana <ana@example.com>") {
		t.Fatalf("output = %q, want the stored user", got)
	}
}
