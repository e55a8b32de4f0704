package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Args
	}{
		{"empty", "", Args{}},
		{"pairs", "tag=PC-1 owner=alice", Args{"tag": "PC-1", "owner": "alice"}},
		{"quoted", `notes="spare unit" tag=PC-2`, Args{"notes": "spare unit", "tag": "PC-2"}},
		{"later wins", "tag=a tag=b", Args{"tag": "b"}},
		{"noise ignored", "csv please tag=x", Args{"tag": "x"}},
		{"value keeps equals", "notes=a=b", Args{"notes": "a=b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseArgs(tt.in))
		})
	}
}

func TestArgsQuery(t *testing.T) {
	assert.Equal(t, "", Args{}.Query())
	assert.Equal(t, "owner=alice status=active", Args{"status": "active", "owner": "alice"}.Query())
}

func TestSplitLine(t *testing.T) {
	name, rest := splitLine("  list   status=active owner=bob ")
	assert.Equal(t, "list", name)
	assert.Equal(t, "status=active owner=bob", rest)

	name, rest = splitLine("help")
	assert.Equal(t, "help", name)
	assert.Equal(t, "", rest)

	name, rest = splitLine("export\tcsv")
	assert.Equal(t, "export", name)
	assert.Equal(t, "csv", rest)
}
