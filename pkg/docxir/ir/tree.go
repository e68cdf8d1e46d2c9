package ir

import "strings"

// Walk visits every block depth-first, descending into table cells. It stops
// early when fn returns false.
func Walk(blocks []Block, fn func(Block) bool) bool {
	for _, b := range blocks {
		if !fn(b) {
			return false
		}
		if t, ok := b.(*Table); ok {
			for _, row := range t.Rows {
				for _, cell := range row.Cells {
					if !Walk(cell.Blocks, fn) {
						return false
					}
				}
			}
		}
	}
	return true
}

// EmbedIDs lists the distinct embed ids referenced by image blocks, in
// document order.
func EmbedIDs(blocks []Block) []string {
	var ids []string
	seen := make(map[string]bool)
	Walk(blocks, func(b Block) bool {
		if img, ok := b.(*Image); ok && !seen[img.EmbedID] {
			seen[img.EmbedID] = true
			ids = append(ids, img.EmbedID)
		}
		return true
	})
	return ids
}

// PlainText renders the text content with one line per paragraph, heading,
// list item and table cell block.
func PlainText(blocks []Block) string {
	var lines []string
	Walk(blocks, func(b Block) bool {
		switch v := b.(type) {
		case *Paragraph:
			lines = append(lines, runsText(v.Runs))
		case *Heading:
			lines = append(lines, runsText(v.Runs))
		case *List:
			for _, item := range v.Items {
				lines = append(lines, runsText(item.Runs))
			}
		}
		return true
	})
	return strings.Join(lines, "\n")
}

// Text concatenates the runs of a slice.
func Text(runs []Run) string {
	return runsText(runs)
}

// CloneBlocks deep-copies a block slice.
func CloneBlocks(blocks []Block) []Block {
	if blocks == nil {
		return nil
	}
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = CloneBlock(b)
	}
	return out
}

// CloneBlock deep-copies a single block.
func CloneBlock(b Block) Block {
	switch v := b.(type) {
	case *Paragraph:
		c := *v
		c.Runs = cloneRuns(v.Runs)
		return &c
	case *Heading:
		c := *v
		c.Runs = cloneRuns(v.Runs)
		return &c
	case *List:
		c := *v
		if v.Items != nil {
			c.Items = make([]ListItem, len(v.Items))
			for i, item := range v.Items {
				c.Items[i] = ListItem{Runs: cloneRuns(item.Runs)}
			}
		}
		return &c
	case *Table:
		c := &Table{}
		if v.Rows != nil {
			c.Rows = make([]TableRow, len(v.Rows))
			for i, row := range v.Rows {
				if row.Cells != nil {
					c.Rows[i].Cells = make([]TableCell, len(row.Cells))
					for j, cell := range row.Cells {
						c.Rows[i].Cells[j] = TableCell{Blocks: CloneBlocks(cell.Blocks)}
					}
				}
			}
		}
		return c
	case *Image:
		c := *v
		return &c
	case *Unsupported:
		c := *v
		return &c
	}
	return b
}

// Equal compares two block trees structurally. Nil and empty slices are
// equal, and a nil style equals an empty one.
func Equal(a, b []Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !BlockEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// BlockEqual compares two blocks structurally.
func BlockEqual(a, b Block) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Paragraph:
		y := b.(*Paragraph)
		return x.Align == y.Align && x.Indent == y.Indent && RunsEqual(x.Runs, y.Runs)
	case *Heading:
		y := b.(*Heading)
		return x.Level == y.Level && x.Align == y.Align && RunsEqual(x.Runs, y.Runs)
	case *List:
		y := b.(*List)
		if x.Ordered != y.Ordered || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !RunsEqual(x.Items[i].Runs, y.Items[i].Runs) {
				return false
			}
		}
		return true
	case *Table:
		y := b.(*Table)
		if len(x.Rows) != len(y.Rows) {
			return false
		}
		for i := range x.Rows {
			if len(x.Rows[i].Cells) != len(y.Rows[i].Cells) {
				return false
			}
			for j := range x.Rows[i].Cells {
				if !Equal(x.Rows[i].Cells[j].Blocks, y.Rows[i].Cells[j].Blocks) {
					return false
				}
			}
		}
		return true
	case *Image:
		return *x == *b.(*Image)
	case *Unsupported:
		return *x == *b.(*Unsupported)
	}
	return false
}

// RunsEqual compares run slices, treating nil and empty styles alike.
func RunsEqual(a, b []Run) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Text != b[i].Text || a[i].EffectiveStyle() != b[i].EffectiveStyle() {
			return false
		}
	}
	return true
}
