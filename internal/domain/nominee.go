package domain

// Department is the namespace for nominee codes. Abbrev prefixes every code
// and CodeSeq is the atomic counter behind code allocation.
type Department struct {
	ID      string
	EventID string
	Name    string
	Abbrev  string
	CodeSeq int
}

// Nominee is a vote target. Code is the short identifier used by the web and
// USSD entry points; it is assigned at creation and never changes.
type Nominee struct {
	ID           string
	DepartmentID string
	Name         string
	Code         string
}
