package game

// Board boundaries for row/column coordinates.
const (
	BorderMin = 0
	BorderMax = 2
)

// Index converts a row/column pair into a cell index, or -1 when off the board.
func Index(row, col int) int {
	if row < BorderMin || row > BorderMax || col < BorderMin || col > BorderMax {
		return -1
	}
	return row*3 + col
}

// RowCol converts a cell index into its row and column.
func RowCol(index int) (row, col int) {
	return index / 3, index % 3
}
