package domain

// Sheet is one named table of an uploaded workbook. Column names are
// normalized (lower-cased, trimmed) at parse time and every row carries a
// value for every column, with missing cells materialized as "".
type Sheet struct {
	Name    string
	Columns []string
	Rows    []map[string]string
}

// Workbook is an in-memory parse of an uploaded spreadsheet. It is immutable
// after load and scoped to the request that created it; the raw upload is
// never persisted.
type Workbook struct {
	Sheets []Sheet
}

// SheetNames returns the sheet names in the order they appear in the file.
func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// Sheet looks up a sheet by name. The second return value reports whether
// the sheet exists.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	for i := range w.Sheets {
		if w.Sheets[i].Name == name {
			return &w.Sheets[i], true
		}
	}
	return nil, false
}
