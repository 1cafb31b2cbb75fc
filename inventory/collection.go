package inventory

import "strings"

const (
	Servers      = "srv"
	Networks     = "net"
	Environments = "env"
)

// SelfID stands in for the id of the machine running the client.
const SelfID = "self"

// Collections lists the short collection names accepted by the command line.
func Collections() []string {
	return []string{Environments, Networks, Servers}
}

// Plural returns the path segment for a collection name. Names that already
// end in "s" are returned unchanged, so Plural is idempotent.
func Plural(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasSuffix(name, "s") {
		return name
	}
	return name + "s"
}

// Singular maps the plural path segment of a known collection back to its
// short name. Other names are returned trimmed.
func Singular(name string) string {
	name = strings.TrimSpace(name)
	for _, collection := range Collections() {
		if name == Plural(collection) {
			return collection
		}
	}
	return name
}

// IsServers reports whether name addresses the servers collection.
func IsServers(name string) bool {
	return Plural(name) == Plural(Servers)
}
