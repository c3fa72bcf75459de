package scandown

// assembleTable builds a Table from the classified rows of a table run.
//
// When the second row is a separator, the first row becomes the header. Any
// other separator rows are dropped. Every row is then normalized to the
// header width, or to the widest row when there is no header: missing cells
// are empty, extra cells are dropped. Returns false if there is neither a
// header nor any data row.
func assembleTable(rows []Line, sr spanResolver) (Table, bool) {
	var (
		table  Table
		header []string
		body   [][]string
	)
	for i, row := range rows {
		switch {
		case i == 1 && row.Sep && !rows[0].Sep:
			header = rows[0].Cells
			body = body[:0]
		case row.Sep:
		default:
			body = append(body, row.Cells)
		}
	}
	if header == nil && len(body) == 0 {
		return table, false
	}

	width := len(header)
	if header == nil {
		for _, cells := range body {
			if len(cells) > width {
				width = len(cells)
			}
		}
	} else {
		table.Header = tableRow(header, width, sr)
	}
	if len(body) > 0 {
		table.Rows = make([]Row, len(body))
		for i, cells := range body {
			table.Rows[i] = tableRow(cells, width, sr)
		}
	}
	return table, true
}

func tableRow(cells []string, width int, sr spanResolver) Row {
	row := make(Row, width)
	for i := range row {
		if i < len(cells) {
			row[i] = Cell(sr.resolve(cells[i]))
		}
		if row[i] == nil {
			row[i] = Cell{}
		}
	}
	return row
}
