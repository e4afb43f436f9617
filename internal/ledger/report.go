package ledger

import (
	"github.com/gravitas-games/aftermath/internal/catalog"
	"github.com/gravitas-games/aftermath/pkg/models"
)

// Report summarizes the ledger for display and export.
func (p *Player) Report() models.PlayerReport {
	r := models.PlayerReport{
		Name:        p.name,
		Nation:      p.nation,
		Date:        p.Date(),
		Money:       p.money,
		Specialists: p.Specialists(),
	}
	if p.stockpile.Len() > 0 {
		r.Stockpile = make(map[string]int, p.stockpile.Len())
		p.stockpile.Each(func(t *catalog.Type, n int) { r.Stockpile[t.Key] = n })
	}
	for _, t := range p.technology {
		r.Technology = append(r.Technology, t.Key)
	}
	for _, t := range p.research.Queued() {
		r.Research = append(r.Research, t.Key)
	}
	p.industry.Report(&r)
	p.transport.Report(&r)
	for _, g := range p.groups() {
		for _, u := range g.Units().Units() {
			r.Units = append(r.Units, models.UnitReport{
				Type:      u.Type().Key,
				Group:     g.Name(),
				Level:     u.Index(),
				Toughness: u.Toughness(),
				Upgrading: u.Upgrading(),
			})
		}
	}
	return r
}
