package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/dwhetl/pkg/dwhetl"
)

func sampleResult() *dwhetl.ResultTable {
	return &dwhetl.ResultTable{
		Columns: []string{"level", "plays", "top_location"},
		Rows: [][]any{
			{"free", int64(12), nil},
			{"paid", int64(30), "San Francisco"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"ASCII", FormatTable, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"csv", FormatCSV, false},
		{"html", FormatHTML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, dwhetl.ErrInvalidConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResult(), FormatTable))

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	// border, header, border, 2 rows, border
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[0], "+-"))
	assert.Contains(t, lines[1], "level")
	assert.Contains(t, lines[1], "top_location")
	assert.NotContains(t, lines[1], "LEVEL")
	assert.Contains(t, lines[3], "free")
	assert.Contains(t, lines[3], "NULL")
	assert.Contains(t, lines[4], "San Francisco")
}

func TestRender_EmptyRowsRendersHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, &dwhetl.ResultTable{Columns: []string{"count"}}, FormatTable))

	out := buf.String()
	assert.Contains(t, out, "count")
	assert.GreaterOrEqual(t, len(strings.Split(strings.TrimRight(out, "\n"), "\n")), 3)
}

func TestRender_NoColumnsWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, &dwhetl.ResultTable{}, FormatTable))
	require.NoError(t, Render(&buf, nil, FormatTable))
	assert.Empty(t, buf.String())
}

func TestRender_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResult(), FormatMarkdown))

	out := buf.String()
	assert.Contains(t, out, "| level | plays | top_location |")
	assert.Contains(t, out, "| paid | 30 | San Francisco |")
}

func TestRender_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResult(), FormatCSV))

	assert.Equal(t, "level,plays,top_location\nfree,12,NULL\npaid,30,San Francisco\n", buf.String())
}

func TestRender_HTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResult(), FormatHTML))

	out := buf.String()
	assert.Contains(t, out, "<table")
	assert.Contains(t, out, "Francisco")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestRender_WriteError(t *testing.T) {
	err := Render(failingWriter{}, sampleResult(), FormatTable)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dwhetl.ErrRenderFailed))
}

func TestRender_UnknownFormat(t *testing.T) {
	err := Render(&bytes.Buffer{}, sampleResult(), Format("xml"))
	assert.True(t, errors.Is(err, dwhetl.ErrRenderFailed))
}
