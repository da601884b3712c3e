package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	r := NewRuntime(DefaultOptions())
	root := r.Reactive(map[string]any{
		"user": map[string]any{
			"name": "ada",
			"tags": []any{"math", map[string]any{"$ref": 1}},
		},
	})

	tests := []struct {
		path string
		want any
	}{
		{"user.name", "ada"},
		{"user.tags.0", "math"},
		{"user.tags.1.$ref", 1},
		{"user.tags.9", nil},
		{"user.tags.first", nil},
		{"user.name.length", nil},
		{"missing.key", nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			get, err := ParsePath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, get(root))
		})
	}

	for _, path := range []string{"", "user[0]", "a.b()", "a b", "a-b"} {
		t.Run("invalid "+path, func(t *testing.T) {
			_, err := ParsePath(path)
			assert.ErrorIs(t, err, ErrInvalidPath)
		})
	}
}

func TestWatchPath(t *testing.T) {
	r := NewRuntime(DefaultOptions())
	root := r.Reactive(map[string]any{"a": map[string]any{"b": 1}})

	log := [][2]any{}
	w, err := r.WatchPath(root, "a.b", func(value, old any) error {
		log = append(log, [2]any{old, value})
		return nil
	}, WatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, w.Value())

	r.Run(func() { root.Get("a").(*Object).Set("b", 2) })
	r.Run(func() { root.Set("a", map[string]any{"b": 3}) })

	assert.Equal(t, [][2]any{{1, 2}, {2, 3}}, log)
}
