package export

import (
	"encoding/json"
	"io"
	"math"

	"github.com/yomorun/flightdata/core/packet"
	"github.com/yomorun/flightdata/pkg/config"
)

func init() {
	Register(jsonExporter{})
}

// jsonExporter writes JSON lines, one object per table row keyed by column.
// Missing cells are omitted.
type jsonExporter struct{}

func (jsonExporter) Name() string { return "json" }

func (jsonExporter) Export(w io.Writer, src packet.Source, layout *config.Rocket, opts Options) error {
	g := newTable(src, layout, opts)
	columns := g.Columns()

	enc := json.NewEncoder(w)
	for {
		row, err := g.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		obj := make(map[string]any, len(row))
		for i, v := range row {
			if v != nil {
				obj[columns[i]] = jsonValue(*v)
			}
		}
		if err := enc.Encode(obj); err != nil {
			return err
		}
	}
}

// jsonValue writes NaN and infinities as strings.
func jsonValue(v packet.Value) any {
	if f := v.Float(); v.Kind().IsFloat() && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return v.String()
	}
	return v.Interface()
}
