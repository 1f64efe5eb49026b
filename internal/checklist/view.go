package checklist

// TableView is the JSON shape of a CodeTable.
type TableView struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Codes []Code `json:"codes"`
}

// View is what the form layer needs to mirror the checklist: sections in order and
// the selectable codes per table.
type View struct {
	Sections []Section  `json:"sections"`
	Tables   []TableView `json:"tables"`
}

func NewView(s Schema, ts CodeTables) View {
	v := View{Sections: NewSchema(s.Sections...).Sections}
	for _, t := range ts.All() {
		v.Tables = append(v.Tables, TableView{Name: t.Name, Label: t.Label, Codes: t.Codes()})
	}
	return v
}
