package checklist

const (
	TableUAE  = "UAE"
	TableNFPA = "NFPA"
)

// Default returns the fire-safety inspection checklist.
func Default() Schema {
	return NewSchema(
		Section{
			Title: "FIRE DETECTION & ALARM SYSTEM (FDAS)",
			Items: []string{
				"Main Panel – Working / Not working",
				"Batteries Available – Yes / No",
			},
		},
		Section{
			Title: "EMERGENCY & EXIT LIGHTS",
			Items: []string{
				"Exit Lights Installed",
			},
		},
	)
}

// DefaultCodeTables returns the UAE and NFPA reference tables.
func DefaultCodeTables() CodeTables {
	return NewCodeTables(
		NewCodeTable(TableUAE, "UAE Code",
			Code{ID: "UAE-C1", Description: "Control panels must be clearly labeled"},
			Code{ID: "UAE-C2", Description: "Battery backup required for all systems"},
		),
		NewCodeTable(TableNFPA, "NFPA Code",
			Code{ID: "NFPA-72", Description: "National Fire Alarm Code"},
			Code{ID: "NFPA-101", Description: "Life Safety Code"},
		),
	)
}
