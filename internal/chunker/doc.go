// Package chunker finds start/end marker chunks in shell script documents.
//
// A chunk is a contiguous range of lines opened by a start marker and
// closed by the end marker of the same marker pair. Each configured pair
// scans independently, so chunks of different pairs may overlap while
// chunks of the same pair never nest.
//
// # Basic Usage
//
//	s, err := chunker.New([]types.MarkerPair{
//	    {ID: "job", Start: "#>>", End: "#<<"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, c := range s.Scan(lines) {
//	    fmt.Printf("%s: lines %d-%d\n", c.Title, c.StartLine, c.EndLine)
//	}
//
// # Marker Matching
//
// Markers are RE2 patterns anchored at the first non-blank character of a
// line. The character following the marker must be whitespace, the end of
// the line, or differ from the marker's last character:
//
//	run        matches "run", "run job", "  run"
//	run        does not match "runner"
//
// # Titles
//
// The second whitespace-separated field of the start line names the chunk.
// A start line with a single field is titled types.DefaultTitle. Markers
// containing spaces take up fields of their own:
//
//	#>> align_reads extra   -> "align_reads"
//	#>>                     -> "shellbook_run"
//	# %% plot               -> "%%"
//
// # Malformed Documents
//
// Scanning never fails. A start marker without a matching end produces no
// chunk, an end marker without a start is ignored, and a start marker
// seen while its pair is already open is ignored.
package chunker
