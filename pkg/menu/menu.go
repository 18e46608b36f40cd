package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// Path is the path the menu is published at.
	Path = "/menu"

	// DefaultDescription replaces empty item descriptions on the publishing side.
	DefaultDescription = "No description"
)

var (
	// ErrNoItems is returned when a menu source yields no items.
	ErrNoItems = errors.New("no menu items found")

	// ErrUnsupportedFormat is returned when a menu file extension is not recognized.
	ErrUnsupportedFormat = errors.New("unsupported menu file format")
)

// Source produces the current menu. It is called once per request.
type Source func(ctx context.Context) ([]Item, error)

// FileSource returns a Source that reads and normalizes the menu file on every call,
// so edits to the file are published without a restart.
func FileSource(path string) Source {
	return func(_ context.Context) ([]Item, error) {
		items, err := Load(path)
		if err != nil {
			return nil, err
		}
		return Normalize(items), nil
	}
}

// StaticSource returns a Source that always yields the given items.
func StaticSource(items []Item) Source {
	return func(_ context.Context) ([]Item, error) {
		return items, nil
	}
}

// Load reads a menu file. The format is selected by extension:
// .json for a JSON array, .yaml or .yml for a YAML sequence.
func Load(path string) ([]Item, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu file %s: %w", path, err)
	}

	var items []Item

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(b, &items)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &items)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to parse menu file %s: %w", path, err)
	}

	return items, nil
}

// Normalize cleans up published items: a trailing comma is stripped from names,
// items without a name are dropped and empty descriptions get DefaultDescription.
// Order is preserved.
func Normalize(items []Item) []Item {
	out := make([]Item, 0, len(items))

	for _, it := range items {
		it.Name = strings.TrimSuffix(it.Name, ",")
		if it.Name == "" {
			continue
		}
		if it.Description == "" {
			it.Description = DefaultDescription
		}
		out = append(out, it)
	}

	return out
}

// Handler returns an HTTP handler that responds with the menu as a JSON array.
// A failing or empty source results in a 500 with a JSON error body.
func Handler(src Source) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Info("handling menu request",
			"method", r.Method,
			"url", r.URL.Path,
		)

		items, err := src(r.Context())
		if err == nil && len(items) == 0 {
			err = ErrNoItems
		}
		if err != nil {
			slog.Error("failed to retrieve menu", "error", err)
			writeError(w, http.StatusInternalServerError, "could not retrieve menu data or no menu items found")
			return
		}

		writeJSON(w, http.StatusOK, items)

		slog.Info("menu response sent",
			"method", r.Method,
			"url", r.URL.Path,
			"items", len(items),
		)
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	b, _ := json.Marshal(map[string]string{"error": message})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	b, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		writeError(w, http.StatusInternalServerError, "error, see logs for details")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}
