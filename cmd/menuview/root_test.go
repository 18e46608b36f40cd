package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/menuview/pkg/view"
)

const testMenu = `[
	{"name": "Falafel Wrap", "description": "lettuce, tomato, tahini", "price": "$8"},
	{"name": "Lentil Soup", "description": "lentils, cumin", "price": "$5"}
]`

func endpoint(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/menu"
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootPlain(t *testing.T) {
	out, err := run(t, "--plain", "--url", endpoint(t, http.StatusOK, testMenu))
	require.NoError(t, err)
	assert.Equal(t, "Falafel Wrap\t$8\nLentil Soup\t$5\n", out)
}

func TestRootPlainCollapsesFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "empty array", status: http.StatusOK, body: `[]`},
		{name: "server error", status: http.StatusInternalServerError, body: `{"error": "x"}`},
		{name: "malformed", status: http.StatusOK, body: `[{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "--plain", "--url", endpoint(t, tt.status, tt.body))
			require.NoError(t, err)
			assert.Equal(t, view.EmptyTitle+"\n"+view.EmptyDescription+"\n", out)
		})
	}
}

func TestRootInvalidURL(t *testing.T) {
	_, err := run(t, "--plain", "--url", "not a url")
	assert.Error(t, err)
}

func TestShow(t *testing.T) {
	url := endpoint(t, http.StatusOK, testMenu)

	out, err := run(t, "show", "Falafel Wrap", "--url", url)
	require.NoError(t, err)
	assert.Contains(t, out, "Falafel Wrap")
	assert.Contains(t, out, "tahini")

	_, err = run(t, "show", "Pizza", "--url", url)
	assert.ErrorIs(t, err, errItemNotFound)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, appName+" "+version)
}

func TestServeRequiresFile(t *testing.T) {
	_, err := run(t, "serve")
	assert.ErrorContains(t, err, "--file is required")

	path := filepath.Join(t.TempDir(), "menu.toml")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	_, err = run(t, "serve", "--file", path)
	assert.ErrorContains(t, err, "invalid menu file")
}
