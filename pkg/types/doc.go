// Package types provides shared type definitions for the shellbook MCP server.
//
// This package defines the domain types used across the scanner, the lens
// provider, the highlight updater and the chunk index.
//
// # Core Types
//
// MarkerPair describes one kind of chunk delimiter:
//
//	pair := types.MarkerPair{
//	    ID:    "job",
//	    Start: "#>>",
//	    End:   "#<<",
//	}
//
// MatchedChunk is a closed start/end pair found in a document. Line numbers
// are 0-based and inclusive:
//
//	chunk := types.MatchedChunk{
//	    PairID:    "job",
//	    StartLine: 4,
//	    EndLine:   9,
//	    Title:     "align_reads",
//	}
//
// When the start line carries no title token the chunk is titled with
// DefaultTitle.
//
// # Actions
//
// Each chunk yields up to four actions, one per ActionKind, in the fixed
// order returned by AllActionKinds:
//
//	for _, kind := range types.AllActionKinds() {
//	    fmt.Println(kind.Label(), kind.Command())
//	}
//
// # Validation
//
// Marker pairs and chunks implement Validate:
//
//	if err := pair.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package types
