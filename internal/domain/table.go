package domain

// Table 通用指标的扁平表结构：列顺序 + 每行一个扁平化文档
// 嵌套字段用点号展开（如 value.bpm）
type Table struct {
	Columns []string
	Rows    []map[string]any
}

// AddColumn 追加一列（已存在则忽略）
func (t *Table) AddColumn(name string) {
	for _, c := range t.Columns {
		if c == name {
			return
		}
	}
	t.Columns = append(t.Columns, name)
}

// RenameColumn 重命名列及所有行中的键
func (t *Table) RenameColumn(from, to string) {
	for i, c := range t.Columns {
		if c == from {
			t.Columns[i] = to
		}
	}
	for _, row := range t.Rows {
		if v, ok := row[from]; ok {
			delete(row, from)
			row[to] = v
		}
	}
}

// DropColumn 删除列及所有行中的键
func (t *Table) DropColumn(name string) {
	cols := t.Columns[:0]
	for _, c := range t.Columns {
		if c != name {
			cols = append(cols, c)
		}
	}
	t.Columns = cols
	for _, row := range t.Rows {
		delete(row, name)
	}
}

// ReorderFront 将给定列依次移动到表头（缺失的列跳过）
func (t *Table) ReorderFront(names ...string) {
	front := make([]string, 0, len(names))
	seen := map[string]bool{}
	for _, n := range names {
		for _, c := range t.Columns {
			if c == n {
				front = append(front, n)
				seen[n] = true
			}
		}
	}
	rest := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !seen[c] {
			rest = append(rest, c)
		}
	}
	t.Columns = append(front, rest...)
}
