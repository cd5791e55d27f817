package export

import (
	"encoding/csv"
	"io"

	"github.com/yomorun/flightdata/core/packet"
	"github.com/yomorun/flightdata/core/table"
	"github.com/yomorun/flightdata/pkg/config"
)

func init() {
	Register(csvExporter{})
}

// csvExporter writes a header row followed by one row per table row. Missing
// cells are empty, floats carry 8 decimal places.
type csvExporter struct{}

func (csvExporter) Name() string { return "csv" }

func (csvExporter) Export(w io.Writer, src packet.Source, layout *config.Rocket, opts Options) error {
	g := newTable(src, layout, opts)

	cw := csv.NewWriter(w)
	if err := cw.Write(g.Columns()); err != nil {
		return err
	}

	record := make([]string, len(g.Columns()))
	for {
		row, err := g.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			cw.Flush()
			return err
		}
		for i, v := range row {
			record[i] = ""
			if v != nil {
				record[i] = v.String()
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func newTable(src packet.Source, layout *config.Rocket, opts Options) *table.Generator {
	g := table.NewGenerator(src, layout)
	if len(opts.Columns) > 0 {
		g.AllowColumns(opts.Columns)
	}
	return g
}
