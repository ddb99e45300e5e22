package timesheet

// Profile describes the column layout of a timesheet export.
type Profile struct {
	Name        string
	IDCol       string
	DurationCol string
}

func (p Profile) requiredCols() []string {
	return []string{p.IDCol, p.DurationCol}
}

// profiles is tried in order; the first profile whose columns all appear in a row marks that row as the header.
var profiles = []Profile{
	{Name: "pt", IDCol: "ID", DurationCol: "Duração"},
	{Name: "en", IDCol: "ID", DurationCol: "Duration"},
	{Name: "en-hours", IDCol: "ID", DurationCol: "Hours"},
}
