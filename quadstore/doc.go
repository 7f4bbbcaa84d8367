// Package quadstore keeps RDF quads in a SQLite database and replays them
// as an ordered quad stream.
//
// A dataset is a set: adding a quad that is already stored is a no-op.
// Scans come in two orders:
//   - OrderInsertion: the order quads were first added.
//   - OrderGrouped: by top-level entry, the subject of a default-graph
//     quad or the name of a named graph. A node's default-graph statements
//     come right before the graph it names, and within a graph the
//     statements about one subject are contiguous, so the JSON-LD
//     serializer emits one entry per node and per graph.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package quadstore
