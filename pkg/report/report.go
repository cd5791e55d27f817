// Package report summarises a flight recording as a LaTeX document.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/yomorun/flightdata/core/packet"
	"github.com/yomorun/flightdata/core/table"
	"github.com/yomorun/flightdata/pkg/config"
)

const header = "\\documentclass{article}\n\n"

// ValueStats are the statistics of one recorded value.
type ValueStats struct {
	Min   packet.Value
	Max   packet.Value
	Count uint64
}

func (s *ValueStats) add(v packet.Value) {
	if s.Count == 0 || v.Compare(s.Min) < 0 {
		s.Min = v
	}
	if s.Count == 0 || v.Compare(s.Max) > 0 {
		s.Max = v
	}
	s.Count++
}

// Report holds the statistics of every column of a recording.
type Report struct {
	// RunID identifies the conversion run, if set it is printed in the document.
	RunID string

	layout *config.Rocket
	rows   int
	stats  map[string]*ValueStats
}

// New drains src into table rows and collects per column statistics.
func New(layout *config.Rocket, src packet.Source) (*Report, error) {
	r := &Report{
		layout: layout,
		stats:  make(map[string]*ValueStats),
	}

	g := table.NewGenerator(src, layout)
	columns := g.Columns()
	for {
		row, err := g.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		r.rows++
		for i, v := range row {
			if v == nil {
				continue
			}
			s, ok := r.stats[columns[i]]
			if !ok {
				s = new(ValueStats)
				r.stats[columns[i]] = s
			}
			s.add(*v)
		}
	}

	return r, nil
}

// Rows returns the number of table rows the report was built from.
func (r *Report) Rows() int { return r.rows }

// Stats returns the statistics of value of sensor. The second result is
// false if the value was never recorded.
func (r *Report) Stats(sensor *config.Sensor, value config.Value) (ValueStats, bool) {
	s, ok := r.stats[sensor.ColumnName(value)]
	if !ok {
		return ValueStats{}, false
	}
	return *s, true
}

// Document returns the LaTeX document of the report.
func (r *Report) Document() Element {
	elements := []Element{
		Section("Sensor Data"),
		Raw(r.introduction()),
	}
	if r.RunID != "" {
		elements = append(elements, Rawf("Conversion run %s decoded %d rows.", Escape(r.RunID), r.rows))
	}

	for i := range r.layout.Sensors {
		sensor := &r.layout.Sensors[i]
		elements = append(elements, Subsection(Escape(sensor.Name)))

		names := make([]string, len(sensor.Values))
		for j, v := range sensor.Values {
			names[j] = Escape(v.Name)
		}
		elements = append(elements, Rawf("The %s sensor has %d values: %s. ",
			Escape(sensor.Name), len(sensor.Values), strings.Join(names, ", ")))

		recorded := false
		for _, v := range sensor.Values {
			stats, ok := r.Stats(sensor, v)
			if !ok {
				continue
			}
			recorded = true
			elements = append(elements,
				Rawf("The %s value has %d samples. ", Escape(v.Name), stats.Count),
				Rawf("The minimum value is %s. ", stats.Min),
				Rawf("The maximum value is %s. ", stats.Max),
			)
		}
		if !recorded {
			elements = append(elements, Raw("No data was recorded for this sensor. "))
		}
	}

	return NewEnvironment("document", elements...)
}

// WriteTo writes the complete LaTeX source of the report.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, header)
	if err != nil {
		return int64(n), err
	}
	m, err := r.Document().WriteTo(w)
	return int64(n) + m, err
}

func (r *Report) introduction() string {
	names := make([]string, len(r.layout.Sensors))
	for i, s := range r.layout.Sensors {
		names[i] = Escape(s.Name)
	}
	return fmt.Sprintf("The %s rocket has %d sensors: %s.",
		Escape(r.layout.DisplayLabel()), len(r.layout.Sensors), strings.Join(names, ", "))
}
