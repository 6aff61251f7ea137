// Package span describes where in the scanned sources a declaration came
// from.
package span

import "fmt"

// Unknown is what an absent position renders as.
const Unknown = "<unknown>"

// Position is a (file, line, col) triplet. Line and Col are -1 when not
// known.
type Position struct {
	File      string
	Line, Col int
}

func New(file string, line, col int) Position {
	return Position{File: file, Line: line, Col: col}
}

func (pos Position) String() string {
	switch {
	case pos.Col != -1:
		return fmt.Sprintf("%s:%d:%d", pos.File, pos.Line, pos.Col)
	case pos.Line != -1:
		return fmt.Sprintf("%s:%d", pos.File, pos.Line)
	default:
		return fmt.Sprintf("%s:", pos.File)
	}
}

// Positions is an ordered set of Position.
type Positions []Position

// Add appends pos unless it is already present.
func (p *Positions) Add(pos Position) {
	for _, cur := range *p {
		if cur == pos {
			return
		}
	}
	*p = append(*p, pos)
}

// Union returns the positions of both sets without duplicates, p first.
func (p Positions) Union(other Positions) Positions {
	ret := Positions{}
	for _, cur := range p {
		ret.Add(cur)
	}
	for _, cur := range other {
		ret.Add(cur)
	}
	return ret
}
