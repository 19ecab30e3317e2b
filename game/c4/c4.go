package c4

import (
	"fmt"

	"github.com/gorgonia/abgo/game"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
	"gorgonia.org/tensor/native"
)

// Board is a connect-N board. Pieces drop to the lowest empty row of a column.
type Board struct {
	data *tensor.Dense
	it   [][]game.Colour
	n    int // how many to be considered a win?
}

func newBoard(rows, cols, n int) *Board {
	backing := make([]game.Colour, rows*cols)
	data := tensor.New(tensor.WithShape(rows, cols), tensor.WithBacking(backing))
	iter, err := native.Matrix(data)
	if err != nil {
		panic(err)
	}
	it := iter.([][]game.Colour)
	return &Board{
		data: data,
		it:   it,
		n:    n,
	}
}

func (b *Board) Format(s fmt.State, c rune) {
	switch c {
	case 's', 'v':
		for _, row := range b.it {
			fmt.Fprint(s, "⎢ ")
			for _, col := range row {
				fmt.Fprintf(s, "%s ", col)
			}
			fmt.Fprint(s, "⎥\n")
		}
	}
}

func (b *Board) shape() (rows, cols int) {
	sh := b.data.Shape()
	return sh[0], sh[1]
}

func (b *Board) raw() []game.Colour { return b.data.Data().([]game.Colour) }

// landing returns the row a piece dropped in col would land on.
func (b *Board) landing(col int) (row int, err error) {
	rows, cols := b.shape()
	if col < 0 || col >= cols {
		return -1, errors.Errorf("Column %d is out of bounds", col)
	}
	for row = rows - 1; row >= 0; row-- {
		if b.it[row][col] == game.None {
			return row, nil
		}
	}
	return -1, errors.Errorf("Column %d is full", col)
}

func (b *Board) check(m game.Move) error {
	row, err := b.landing(m.Col)
	if err != nil {
		return err
	}
	if row != m.Row {
		return errors.Errorf("A piece dropped in column %d lands on row %d, not %d", m.Col, row, m.Row)
	}
	return nil
}

func (b *Board) apply(p game.Player, m game.Move) error {
	if err := b.check(m); err != nil {
		return err
	}
	b.it[m.Row][m.Col] = game.Colour(p)
	return nil
}

func (b *Board) clone() *Board {
	rows, cols := b.shape()
	b2 := newBoard(rows, cols, b.n)
	copy(b2.raw(), b.raw())
	return b2
}

// directions to look for N in a row: right, down, down-right, down-left
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

func (b *Board) checkWin() game.Colour {
	rows, cols := b.shape()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			c := b.it[y][x]
			if c == game.None {
				continue
			}
			for _, d := range directions {
				if b.runFrom(y, x, d[0], d[1], rows, cols) >= b.n {
					return c
				}
			}
		}
	}
	return game.None
}

// runFrom counts how many pieces of the same colour lie in a line starting at (y, x).
func (b *Board) runFrom(y, x, dy, dx, rows, cols int) int {
	c := b.it[y][x]
	var count int
	for y >= 0 && y < rows && x >= 0 && x < cols && b.it[y][x] == c {
		count++
		y, x = y+dy, x+dx
	}
	return count
}
