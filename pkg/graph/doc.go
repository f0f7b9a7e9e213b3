// Package graph provides the dataset types consumed by the graph viewport
// engine.
//
// This package defines the canonical wire format for corpus relationship
// graphs and the identity type ([NodeRef]) shared by every engine package.
//
// # Datasets
//
// Two payloads are supported:
//
//   - [CoreDataset]: a single-mode "language core" graph, nodes carry
//     frequency, unique neighbor count and aggregate connection weight
//   - [SemanticDataset]: two bipartite subgraphs (adjective↔noun and
//     verb↔noun), each with a left and a right node column
//
// Both use the same [Edge] shape:
//
//	{"source": "duży", "target": "dom", "weight": 12}
//
// # Node identity
//
// Bipartite sides may share identifiers ("pies" can appear on both sides of
// a graph), so node identity is always a [NodeRef]: the side plus the id.
// Single-mode graphs use [SideNone].
//
// # Top-N filtering
//
// [CoreDataset.Top] restricts a dataset to the N nodes with the largest
// connection weight and keeps only edges between surviving nodes. The side
// panel keeps using the unfiltered dataset.
//
// # Concurrency
//
// Datasets are plain values; they are safe for concurrent reads.
package graph
