package reactive

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch(t *testing.T) {
	t.Run("passes the new and old values", func(t *testing.T) {
		log := []string{}

		state := Reactive(map[string]any{"a": 1})

		Watch(func() int {
			return state.Get("a").(int)
		}, func(value, old int) {
			log = append(log, fmt.Sprintf("%d -> %d", old, value))
		})

		Run(func() {
			state.Set("a", 2)
			state.Set("a", 3)
		})

		assert.Equal(t, []string{"1 -> 3"}, log)
	})

	t.Run("skips unchanged results", func(t *testing.T) {
		calls := 0

		state := Reactive(map[string]any{"a": 1, "b": 1})

		Watch(func() bool {
			return state.Get("a").(int) > 0 && state.Get("b").(int) > 0
		}, func(value, old bool) {
			calls++
		})

		Run(func() { state.Set("a", 2) })
		assert.Equal(t, 0, calls)

		Run(func() { state.Set("b", 0) })
		assert.Equal(t, 1, calls)
	})

	t.Run("immediate", func(t *testing.T) {
		log := []string{}

		state := Reactive(map[string]any{"name": "ada"})

		Watch(func() string {
			return state.Get("name").(string)
		}, func(value, old string) {
			log = append(log, fmt.Sprintf("%q -> %q", old, value))
		}, WithImmediate())

		Run(func() { state.Set("name", "grace") })

		assert.Equal(t, []string{
			`"" -> "ada"`,
			`"ada" -> "grace"`,
		}, log)
	})

	t.Run("shallow watchers ignore nested writes", func(t *testing.T) {
		calls := 0

		state := Reactive(map[string]any{
			"user": map[string]any{"name": "ada"},
		})

		Watch(func() *Object {
			return state.Get("user").(*Object)
		}, func(value, old *Object) {
			calls++
		})

		Run(func() { state.Get("user").(*Object).Set("name", "grace") })
		assert.Equal(t, 0, calls)

		Run(func() { state.Get("user").(*Object).Set("age", 36) })
		assert.Equal(t, 1, calls)
	})

	t.Run("deep watchers see nested writes", func(t *testing.T) {
		log := []string{}

		state := Reactive(map[string]any{
			"user": map[string]any{
				"name": "ada",
				"tags": []any{"math"},
			},
		})

		Watch(func() *Object {
			return state.Get("user").(*Object)
		}, func(value, old *Object) {
			log = append(log, fmt.Sprint(ToRaw(value)))
		}, WithDeep())

		user := state.Get("user").(*Object)

		Run(func() { user.Set("name", "grace") })
		Run(func() { user.Get("tags").(*Array).Push("navy") })

		assert.Equal(t, []string{
			"map[name:grace tags:[math]]",
			"map[name:grace tags:[math navy]]",
		}, log)
	})

	t.Run("sync watchers run on write", func(t *testing.T) {
		log := []string{}

		state := Reactive(map[string]any{"a": 1})

		Watch(func() int {
			return state.Get("a").(int)
		}, func(value, old int) {
			log = append(log, fmt.Sprintf("%d -> %d", old, value))
		}, WithSync())

		Run(func() {
			state.Set("a", 2)
			log = append(log, "written")
			state.Set("a", 3)
		})

		assert.Equal(t, []string{
			"1 -> 2",
			"written",
			"2 -> 3",
		}, log)
	})

	t.Run("before hook", func(t *testing.T) {
		log := []string{}

		state := Reactive(map[string]any{"a": 1})

		Watch(func() int {
			return state.Get("a").(int)
		}, func(value, old int) {
			log = append(log, fmt.Sprintf("changed %d", value))
		}, WithBefore(func() {
			log = append(log, "before")
		}))

		Run(func() { state.Set("a", 2) })

		assert.Equal(t, []string{"before", "changed 2"}, log)
	})

	t.Run("by path", func(t *testing.T) {
		log := []string{}

		state := Reactive(map[string]any{
			"user": map[string]any{
				"tags": []any{"math", "poetry"},
			},
		})

		_, err := WatchPath(state, "user.tags.1", func(value, old any) {
			log = append(log, fmt.Sprintf("%v -> %v", old, value))
		})
		require.NoError(t, err)

		Run(func() {
			state.Get("user").(*Object).Get("tags").(*Array).Set(1, "engines")
		})
		Run(func() {
			state.Set("user", map[string]any{"tags": []any{}})
		})

		assert.Equal(t, []string{
			"poetry -> engines",
			"engines -> <nil>",
		}, log)
	})

	t.Run("rejects invalid paths", func(t *testing.T) {
		state := Reactive(map[string]any{})

		_, err := WatchPath(state, "user[0]", func(value, old any) {})
		assert.ErrorIs(t, err, ErrInvalidPath)
	})
}
