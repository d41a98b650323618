// Package depgraph models the inter-module dependency graph of a Gradle
// workspace and the algorithms that run over it.
//
// A Graph is built once per analysis pass from parsed build facts and is
// read-only afterwards. Every algorithm in this package is a pure function
// of the graph, so a graph may be shared between goroutines without
// locking.
//
// Project references are resolved by path-suffix matching: the reference
// ":libs:core" matches the module at "libs/core" because both have two
// segments and the segments agree. References that match no module, or
// more than one, produce no edge and are reported in Diagnostics.
//
// Edge direction: an edge from u to v means u depends on v.
package depgraph
