// Package table assembles sensor packets into rows of a flat table with one
// column per sensor value.
package table

import (
	"io"
	"slices"

	"github.com/yomorun/flightdata/core/packet"
	"github.com/yomorun/flightdata/pkg/config"
)

// Row is one table row. Row[i] belongs to Columns()[i]; nil cells were not
// recorded for that row.
type Row []*packet.Value

// Generator builds rows from a packet source.
//
// Packets are merged into the current row until one would overwrite a cell
// that is already filled. That packet is held back and opens the next row.
type Generator struct {
	src     packet.Source
	layout  *config.Rocket
	columns []string
	index   map[string]int
	pending *packet.Packet
	err     error
}

// NewGenerator returns a Generator over src. layout must be the one the
// packets were read with.
func NewGenerator(src packet.Source, layout *config.Rocket) *Generator {
	g := &Generator{src: src, layout: layout}
	g.setColumns(layout.Columns())
	return g
}

func (g *Generator) setColumns(columns []string) {
	g.columns = columns
	g.index = make(map[string]int, len(columns))
	for i, c := range columns {
		g.index[c] = i
	}
}

// AllowColumns restricts the table to the named columns. Layout order is kept
// and unknown names are ignored.
func (g *Generator) AllowColumns(names []string) {
	allowed := make([]string, 0, len(names))
	for _, c := range g.layout.Columns() {
		if slices.Contains(names, c) {
			allowed = append(allowed, c)
		}
	}
	g.setColumns(allowed)
}

// Columns returns the column names in row order.
func (g *Generator) Columns() []string {
	return slices.Clone(g.columns)
}

// Next returns the next row, or io.EOF once the source is exhausted. Source
// errors and packets that do not match the layout end the table.
func (g *Generator) Next() (Row, error) {
	if g.err != nil {
		return nil, g.err
	}
	row, err := g.next()
	if err != nil {
		g.err = err
	}
	return row, err
}

func (g *Generator) next() (Row, error) {
	row := make(Row, len(g.columns))
	filled := 0

	for {
		p, err := g.nextPacket()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		sensor, err := packet.Check(g.layout, p)
		if err != nil {
			return nil, err
		}

		if g.overlaps(row, sensor) {
			g.pending = &p
			break
		}

		for i, vc := range sensor.Values {
			idx, ok := g.index[sensor.ColumnName(vc)]
			if !ok {
				continue
			}
			v := p.Values[i]
			row[idx] = &v
			filled++
		}
	}

	if filled == 0 {
		return nil, io.EOF
	}
	return row, nil
}

func (g *Generator) overlaps(row Row, sensor *config.Sensor) bool {
	for _, vc := range sensor.Values {
		if idx, ok := g.index[sensor.ColumnName(vc)]; ok && row[idx] != nil {
			return true
		}
	}
	return false
}

// nextPacket returns the held back packet before reading from the source.
func (g *Generator) nextPacket() (packet.Packet, error) {
	if g.pending != nil {
		p := *g.pending
		g.pending = nil
		return p, nil
	}
	return g.src.Next()
}

// ReadAll reads every remaining row of g.
func ReadAll(g *Generator) ([]Row, error) {
	var rows []Row
	for {
		row, err := g.Next()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}
