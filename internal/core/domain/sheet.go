package domain

// Sheet is a single-worksheet table ready to be rendered into a spreadsheet.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]any
}

// Report pairs a sheet with the file name it is downloaded as.
type Report struct {
	FileName string
	Sheet    Sheet
}
