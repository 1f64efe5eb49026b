package checklist

// Code is one entry of a CodeTable.
type Code struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// CodeTable maps short regulatory code identifiers to their descriptions. Entries
// keep their declared order so the form can list them the same way every time.
type CodeTable struct {
	Name  string
	Label string
	codes []Code
	index map[string]int
}

// NewCodeTable builds a table. A later duplicate ID replaces the earlier description
// but keeps the earlier position.
func NewCodeTable(name, label string, codes ...Code) *CodeTable {
	t := &CodeTable{Name: name, Label: label, index: make(map[string]int, len(codes))}
	for _, c := range codes {
		if i, ok := t.index[c.ID]; ok {
			t.codes[i] = c
			continue
		}
		t.index[c.ID] = len(t.codes)
		t.codes = append(t.codes, c)
	}
	return t
}

// Lookup returns the description for id. A nil table resolves nothing.
func (t *CodeTable) Lookup(id string) (string, bool) {
	if t == nil {
		return "", false
	}
	i, ok := t.index[id]
	if !ok {
		return "", false
	}
	return t.codes[i].Description, true
}

// Codes returns a copy of the entries in declared order.
func (t *CodeTable) Codes() []Code {
	if t == nil {
		return nil
	}
	return append([]Code(nil), t.codes...)
}

// CodeTables is an ordered set of tables addressed by name.
type CodeTables struct {
	tables []*CodeTable
}

func NewCodeTables(tables ...*CodeTable) CodeTables {
	return CodeTables{tables: append([]*CodeTable(nil), tables...)}
}

// Table returns the table registered under name, or nil.
func (ts CodeTables) Table(name string) *CodeTable {
	for _, t := range ts.tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// All returns the tables in registration order.
func (ts CodeTables) All() []*CodeTable {
	return append([]*CodeTable(nil), ts.tables...)
}

// Resolve looks up code in the named table. Unknown tables and unknown codes both
// report not-found.
func (ts CodeTables) Resolve(table, code string) (string, bool) {
	return ts.Table(table).Lookup(code)
}
