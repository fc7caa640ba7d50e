package table

// Cleaning primitives applied by the transformation pipeline. Each returns
// the receiver so operations chain naturally.

// DropNA removes every row with a missing value in any of the given
// columns. With no columns it considers all columns. Unknown column
// names never match and so never drop anything.
func (t *Table) DropNA(columns []string) *Table {
	check := columns
	if len(check) == 0 {
		check = t.Columns
	}

	kept := t.Rows[:0]
	for _, row := range t.Rows {
		missing := false
		for _, col := range check {
			if v, ok := row[col]; ok && v == nil {
				missing = true
				break
			}
		}
		if !missing {
			kept = append(kept, row)
		}
	}
	t.Rows = kept
	return t
}

// FillNA replaces missing values with the given scalar. With columns it
// restricts replacement to those; otherwise it applies table-wide.
func (t *Table) FillNA(value interface{}, columns []string) *Table {
	target := columns
	if len(target) == 0 {
		target = t.Columns
	}

	for _, row := range t.Rows {
		for _, col := range target {
			if v, ok := row[col]; ok && v == nil {
				row[col] = value
			}
		}
	}
	return t
}

// DropColumns removes the named columns. Names not present in the table
// are silently ignored.
func (t *Table) DropColumns(names []string) *Table {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		drop[name] = true
	}

	kept := t.Columns[:0]
	for _, col := range t.Columns {
		if !drop[col] {
			kept = append(kept, col)
		}
	}
	t.Columns = kept

	for _, row := range t.Rows {
		for name := range drop {
			delete(row, name)
		}
	}
	return t
}

// RenameColumns renames columns per the old-to-new mapping, preserving
// column order. Mapping keys that match no column are ignored.
func (t *Table) RenameColumns(mapping map[string]string) *Table {
	if len(mapping) == 0 {
		return t
	}

	for i, col := range t.Columns {
		newName, ok := mapping[col]
		if !ok {
			continue
		}
		t.Columns[i] = newName
		for _, row := range t.Rows {
			if v, exists := row[col]; exists {
				delete(row, col)
				row[newName] = v
			}
		}
	}
	return t
}
