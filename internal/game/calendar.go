package game

import "github.com/gravitas-games/aftermath/internal/catalog"

// Calendar maps turns to game dates.
type Calendar struct {
	turn    int
	start   int
	perTurn int
}

// NewCalendar starts at turn zero on the catalog's start date.
func NewCalendar(cat *catalog.Catalog) *Calendar {
	return &Calendar{start: cat.StartDate(), perTurn: cat.DatePerTurn()}
}

// Turn returns the current turn, starting at zero.
func (c *Calendar) Turn() int { return c.turn }

// Date returns turn*perTurn + start.
func (c *Calendar) Date() int { return c.turn*c.perTurn + c.start }

// Advance moves to the next turn.
func (c *Calendar) Advance() { c.turn++ }
