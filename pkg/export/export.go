// Package export writes decoded flight data in interchange formats.
//
// Exporters register themselves by name; csv, json, msgpack and y3 are built
// in.
package export

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/yomorun/flightdata/core/packet"
	"github.com/yomorun/flightdata/core/yerr"
	"github.com/yomorun/flightdata/pkg/config"
)

var (
	exportersMu sync.RWMutex
	exporters   = make(map[string]Exporter)
)

// Options tunes an export.
type Options struct {
	// Columns restricts table formats to these columns. Empty means all.
	Columns []string
}

// Exporter writes every packet of src to w.
type Exporter interface {
	// Name is the name the exporter is registered under.
	Name() string
	// Export drains src and writes it to w.
	Export(w io.Writer, src packet.Source, layout *config.Rocket, opts Options) error
}

// Register will register an exporter to the exporter collection safely.
func Register(e Exporter) {
	exportersMu.Lock()
	defer exportersMu.Unlock()
	if e == nil {
		panic("export: Register exporter is nil")
	}
	exporters[e.Name()] = e
}

// Lookup returns the exporter registered as name.
func Lookup(name string) (Exporter, error) {
	exportersMu.RLock()
	e, ok := exporters[name]
	exportersMu.RUnlock()
	if !ok {
		return nil, yerr.New(yerr.ErrorCodeExport, fmt.Errorf(`export: unsupport "%s" format`, name))
	}
	return e, nil
}

// Names returns the registered exporter names in sorted order.
func Names() []string {
	exportersMu.RLock()
	defer exportersMu.RUnlock()

	names := make([]string, 0, len(exporters))
	for name := range exporters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Export writes src to w with the exporter registered as name.
func Export(name string, w io.Writer, src packet.Source, layout *config.Rocket, opts Options) error {
	e, err := Lookup(name)
	if err != nil {
		return err
	}
	return e.Export(w, src, layout, opts)
}

// eachPacket calls fn for every packet of src until io.EOF.
func eachPacket(src packet.Source, fn func(packet.Packet) error) error {
	for {
		p, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
	}
}
