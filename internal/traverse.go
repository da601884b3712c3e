package internal

// traverse reads every nested property of v so the active watcher depends on
// all of it. Each container is visited once.
func traverse(v any) {
	seen := make(map[any]struct{})
	walk(v, seen)
}

func walk(v any, seen map[any]struct{}) {
	switch c := v.(type) {
	case *Object:
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}

		for _, key := range c.Keys() {
			walk(c.Get(key), seen)
		}
	case *Array:
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}

		for i := range c.Len() {
			walk(c.At(i), seen)
		}
	}
}
