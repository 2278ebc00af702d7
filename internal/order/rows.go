package order

import "gtodo/internal/service"

// Palette is the sequence of row colors, cycled by position.
var Palette = []string{
	"#F28B82", // red
	"#FBBC04", // orange
	"#FFF475", // yellow
	"#CCFF90", // green
	"#A7FFEB", // teal
	"#CBF0F8", // blue
	"#AECBFA", // dark blue
	"#D7AEFB", // purple
}

// DoneColor marks completed rows regardless of their position.
const DoneColor = "#D3D3D3"

// Row is a task placed at its render position.
type Row struct {
	Task     service.Task
	Position int // 0-based
	Color    string
	Done     bool
}

// ColorAt returns the palette color for a 0-based position.
func ColorAt(position int) string {
	if position < 0 {
		position = -position
	}
	return Palette[position%len(Palette)]
}

// Rows sorts a copy of tasks and assigns each its position and color.
func Rows(tasks []service.Task, c Comparator) []Row {
	sorted := Sort(tasks, c)
	rows := make([]Row, len(sorted))
	for i, t := range sorted {
		color := ColorAt(i)
		if t.IsDone {
			color = DoneColor
		}
		rows[i] = Row{Task: t, Position: i, Color: color, Done: t.IsDone}
	}
	return rows
}
