package internal

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var invalidPath = regexp.MustCompile(`[^\w.$]`)

// ParsePath compiles a dotted path such as "user.tags.0" into a getter that
// walks reactive containers from root. Numeric segments index arrays. A
// missing step yields nil.
func ParsePath(path string) (func(root any) any, error) {
	if path == "" || invalidPath.MatchString(path) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	segments := strings.Split(path, ".")

	return func(root any) any {
		value := root
		for _, segment := range segments {
			switch c := value.(type) {
			case *Object:
				value = c.Get(segment)
			case *Array:
				i, err := strconv.Atoi(segment)
				if err != nil {
					return nil
				}
				value = c.At(i)
			default:
				return nil
			}
		}

		return value
	}, nil
}

// WatchPath watches the value found at path under root.
func (r *Runtime) WatchPath(root *Object, path string, cb Callback, opts WatchOptions) (*Watcher, error) {
	get, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	return r.NewWatch(func() (any, error) {
		return get(root), nil
	}, cb, opts), nil
}
