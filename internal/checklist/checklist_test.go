package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaKeysFollowDeclaredOrder(t *testing.T) {
	s := NewSchema(
		Section{Title: "B", Items: []string{"b0", "b1"}},
		Section{Title: "A", Items: []string{"a0"}},
	)

	require.Equal(t, 3, s.ItemCount())
	assert.Equal(t, []Key{{"B", 0}, {"B", 1}, {"A", 0}}, s.Keys())
}

func TestNewSchemaCopiesItems(t *testing.T) {
	items := []string{"one", "two"}
	s := NewSchema(Section{Title: "S", Items: items})
	items[0] = "changed"

	assert.Equal(t, "one", s.Sections[0].Items[0])
}

func TestNewSchemaRejectsDuplicateTitles(t *testing.T) {
	assert.PanicsWithValue(t, `checklist: duplicate section title "A"`, func() {
		NewSchema(
			Section{Title: "A", Items: []string{"a0"}},
			Section{Title: "A", Items: []string{"b0", "b1"}},
		)
	})
}

func TestSchemaHas(t *testing.T) {
	s := Default()

	assert.True(t, s.Has(Key{"EMERGENCY & EXIT LIGHTS", 0}))
	assert.False(t, s.Has(Key{"EMERGENCY & EXIT LIGHTS", 1}))
	assert.False(t, s.Has(Key{"EMERGENCY & EXIT LIGHTS", -1}))
	assert.False(t, s.Has(Key{"SPRINKLERS", 0}))
}

func TestCodeTableLookup(t *testing.T) {
	ts := DefaultCodeTables()

	desc, ok := ts.Resolve(TableNFPA, "NFPA-72")
	require.True(t, ok)
	assert.Equal(t, "National Fire Alarm Code", desc)

	_, ok = ts.Resolve(TableNFPA, "NFPA-13")
	assert.False(t, ok)

	_, ok = ts.Resolve("BS", "BS-5839")
	assert.False(t, ok, "unknown table must report not-found")

	var nilTable *CodeTable
	_, ok = nilTable.Lookup("x")
	assert.False(t, ok)
}

func TestCodeTableKeepsFirstPositionOnDuplicate(t *testing.T) {
	tbl := NewCodeTable("T", "T Code",
		Code{ID: "a", Description: "first"},
		Code{ID: "b", Description: "second"},
		Code{ID: "a", Description: "replaced"},
	)

	assert.Equal(t, []Code{{"a", "replaced"}, {"b", "second"}}, tbl.Codes())
}

func TestNewView(t *testing.T) {
	v := NewView(Default(), DefaultCodeTables())

	require.Len(t, v.Sections, 2)
	require.Len(t, v.Tables, 2)
	assert.Equal(t, TableUAE, v.Tables[0].Name)
	assert.Equal(t, "NFPA Code", v.Tables[1].Label)
}
