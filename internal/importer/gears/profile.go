package gears

// Profile describes the header names of one language of the gear sheet.
// Adding a language is adding a Profile to the profiles slice.
type Profile struct {
	Name         string
	TypeCol      string
	NameCol      string
	QuantityCol  string
	BrandCol     string
	ConditionCol string
	// Optional columns; missing ones are left empty.
	ValueCol string
	DateCol  string
	NotesCol string
}

// requiredCols returns the columns that must be present for a match.
func (p Profile) requiredCols() []string {
	return []string{p.TypeCol, p.NameCol, p.QuantityCol}
}

var profiles = []Profile{
	{
		Name:         "english",
		TypeCol:      "type",
		NameCol:      "name",
		QuantityCol:  "quantity",
		BrandCol:     "brand",
		ConditionCol: "condition",
		ValueCol:     "value",
		DateCol:      "purchase date",
		NotesCol:     "notes",
	},
	{
		Name:         "arabic",
		TypeCol:      "النوع",
		NameCol:      "الاسم",
		QuantityCol:  "الكمية",
		BrandCol:     "الماركة",
		ConditionCol: "الحالة",
		ValueCol:     "القيمة",
		DateCol:      "تاريخ الشراء",
		NotesCol:     "ملاحظات",
	},
}
