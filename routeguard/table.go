package routeguard

import (
	"strings"
)

// Table maps route path prefixes to access classes, mirroring the original
// application's route declarations.
type Table struct {
	entries []tableEntry
	def     Class
}

type tableEntry struct {
	prefix string
	class  Class
}

// NewTable creates an empty Table. Paths that match no registered prefix
// classify as defaultClass.
func NewTable(defaultClass Class) *Table {
	return &Table{def: defaultClass}
}

// Register attaches a class to a path prefix. Registration order does not
// matter; the longest matching prefix wins on lookup.
func (t *Table) Register(prefix string, class Class) {
	prefix = "/" + strings.Trim(prefix, "/")
	t.entries = append(t.entries, tableEntry{prefix: prefix, class: class})
}

// Classify returns the access class of a path.
func (t *Table) Classify(path string) Class {
	path = "/" + strings.Trim(path, "/")
	best := -1
	class := t.def
	for _, entry := range t.entries {
		if entry.prefix == "/" {
			if path == "/" && best < 1 {
				best = 1
				class = entry.class
			}
			continue
		}
		if path != entry.prefix && !strings.HasPrefix(path, entry.prefix+"/") {
			continue
		}
		if len(entry.prefix) > best {
			best = len(entry.prefix)
			class = entry.class
		}
	}
	return class
}

// DefaultTable declares the storefront's routes: the landing, login, and
// register pages are public-only, the admin area is admin-only, and
// everything else requires authentication.
func DefaultTable() *Table {
	t := NewTable(ClassRequiresAuth)
	t.Register("/", ClassPublicOnly)
	t.Register("/login", ClassPublicOnly)
	t.Register("/register", ClassPublicOnly)
	t.Register("/items", ClassRequiresAuth)
	t.Register("/cart", ClassRequiresAuth)
	t.Register("/checkout", ClassRequiresAuth)
	t.Register("/order-confirmation", ClassRequiresAuth)
	t.Register("/orders", ClassRequiresAuth)
	t.Register("/profile", ClassRequiresAuth)
	t.Register("/admin", ClassRequiresAdmin)
	return t
}
