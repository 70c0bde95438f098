package chunker

import (
	"fmt"
	"testing"

	"github.com/dshills/shellbook-mcp/pkg/types"
)

func generateScript(chunks, bodyLines int) []string {
	lines := make([]string, 0, chunks*(bodyLines+2))
	for i := 0; i < chunks; i++ {
		lines = append(lines, fmt.Sprintf("#>> job_%d", i))
		for j := 0; j < bodyLines; j++ {
			lines = append(lines, fmt.Sprintf("echo step %d of job %d", j, i))
		}
		lines = append(lines, "#<<")
	}
	return lines
}

func BenchmarkScan(b *testing.B) {
	s, err := New([]types.MarkerPair{
		{ID: "job", Start: "#>>", End: "#<<"},
		{ID: "cell", Start: "# %%", End: "# %% end"},
	})
	if err != nil {
		b.Fatal(err)
	}

	sizes := []struct {
		name      string
		chunks    int
		bodyLines int
	}{
		{"small", 5, 10},
		{"medium", 50, 20},
		{"large", 500, 20},
	}

	for _, size := range sizes {
		lines := generateScript(size.chunks, size.bodyLines)
		b.Run(size.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = s.Scan(lines)
			}
		})
	}
}

func BenchmarkCompile(b *testing.B) {
	pairs := []types.MarkerPair{{ID: "job", Start: "#>>", End: "#<<"}}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := New(pairs); err != nil {
			b.Fatal(err)
		}
	}
}
