// Package convert wires the packet parser to an exporter.
package convert

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/yomorun/flightdata/core/packet"
	"github.com/yomorun/flightdata/core/yerr"
	"github.com/yomorun/flightdata/core/ylog"
	"github.com/yomorun/flightdata/pkg/config"
	"github.com/yomorun/flightdata/pkg/export"
	"github.com/yomorun/flightdata/pkg/id"
)

// Options tunes a conversion run.
type Options struct {
	export.Options

	// RunID identifies the run in logs. A new id is generated when empty.
	RunID string
	// Logger receives progress logs. ylog's default logger is used when nil.
	Logger *slog.Logger
}

// Result describes a finished run.
type Result struct {
	RunID   string
	Packets int
	Bytes   int
}

// Run parses packets of layout from r and writes them to w in the format
// named exporter. It stops between packets once ctx is done.
func Run(ctx context.Context, layout *config.Rocket, r io.Reader, exporter string, w io.Writer, opts Options) (Result, error) {
	e, err := export.Lookup(exporter)
	if err != nil {
		return Result{}, err
	}

	runID := opts.RunID
	if runID == "" {
		runID = id.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = ylog.Logger()
	}
	logger = logger.With("run_id", runID, "rocket", layout.Name, "format", e.Name())

	parser := packet.NewParser(r, layout).WithLogger(logger)
	src := &countingSource{ctx: ctx, src: parser}

	logger.Debug("convert start")
	err = e.Export(w, src, layout, opts.Options)
	res := Result{RunID: runID, Packets: src.n, Bytes: parser.Offset()}
	if err != nil {
		logger.Error("convert failed", "packets", res.Packets, "offset", res.Bytes, "err", err)
		return res, err
	}
	logger.Info("convert done", "packets", res.Packets, "bytes", res.Bytes)

	return res, nil
}

// countingSource counts packets and checks ctx before each read.
type countingSource struct {
	ctx context.Context
	src packet.Source
	n   int
}

func (s *countingSource) Next() (packet.Packet, error) {
	if err := s.ctx.Err(); err != nil {
		return packet.Packet{}, err
	}
	p, err := s.src.Next()
	if err == nil {
		s.n++
	}
	return p, err
}

const (
	// LayoutCacheSize is the number of parsed layouts ToCSV keeps.
	LayoutCacheSize = 16
	// LayoutCacheTTL is the time to live of a parsed layout.
	LayoutCacheTTL = 10 * time.Minute
)

// layouts caches parsed layouts by their source text, hosts usually convert
// many recordings of one rocket.
var layouts = expirable.NewLRU[string, *config.Rocket](LayoutCacheSize, nil, LayoutCacheTTL)

func parseLayout(layoutData []byte) (*config.Rocket, error) {
	if layout, ok := layouts.Get(string(layoutData)); ok {
		return layout, nil
	}
	layout, err := config.Parse(layoutData)
	if err != nil {
		return nil, yerr.New(yerr.ErrorCodeConfig, err)
	}
	layouts.Add(string(layoutData), layout)
	return layout, nil
}

// ToCSV converts a recording to CSV text with a layout given as YAML or JSON.
func ToCSV(layoutData, data []byte) (string, error) {
	layout, err := parseLayout(layoutData)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	if _, err := Run(context.Background(), layout, bytes.NewReader(data), "csv", &sb, Options{}); err != nil {
		return "", err
	}
	return sb.String(), nil
}
