package walker

import (
	"fmt"

	"loom/internal/document"
	"loom/internal/reference"
)

// FindPaths traverses an arbitrary descriptor value depth-first and returns
// the path of every scalar reference to the component key found underneath
// it. Paths use dotted mapping keys and bracketed sequence indices, e.g.
// "source_table.schema" or "tools[2]".
//
// Mapping keys are visited in lexical order so the result is deterministic
// even though Go maps are unordered. A mapping entry whose value is itself a
// scalar reference is recorded and not recursed into further; sequences are
// walked element-wise. The input is never mutated, and an empty result
// means "no reference found", not an error.
func FindPaths(root interface{}, key string) []string {
	var paths []string
	walk(root, "", key, &paths)
	return paths
}

func walk(value interface{}, path string, key string, paths *[]string) {
	if reference.Classify(value, key).IsReference {
		*paths = append(*paths, path)
		return
	}

	switch v := value.(type) {
	case map[string]interface{}:
		for _, k := range document.SortedKeys(v) {
			walk(v[k], joinPath(path, k), key, paths)
		}
	case []interface{}:
		for i, e := range v {
			walk(e, fmt.Sprintf("%s[%d]", path, i), key, paths)
		}
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
