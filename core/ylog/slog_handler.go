package ylog

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
)

// splitHandler formats records once and routes them by level: errors go to
// errWriter, everything else to writer.
type splitHandler struct {
	slog.Handler

	mu  *sync.Mutex
	buf *bytes.Buffer

	writer    io.Writer
	errWriter io.Writer
}

// NewHandlerFromConfig creates a slog.Handler from conf
func NewHandlerFromConfig(conf Config) slog.Handler {
	buf := new(bytes.Buffer)

	return &splitHandler{
		Handler:   formatHandler(buf, conf),
		mu:        new(sync.Mutex),
		buf:       buf,
		writer:    parseToWriter(conf, conf.Output, os.Stdout),
		errWriter: parseToWriter(conf, conf.ErrorOutput, os.Stderr),
	}
}

func (h *splitHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	defer h.buf.Reset()

	if err := h.Handler.Handle(ctx, r); err != nil {
		return err
	}

	w := h.writer
	if r.Level >= slog.LevelError {
		w = h.errWriter
	}
	_, err := w.Write(h.buf.Bytes())
	return err
}

func (h *splitHandler) WithAttrs(as []slog.Attr) slog.Handler {
	clone := *h
	clone.Handler = h.Handler.WithAttrs(as)
	return &clone
}

func (h *splitHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.Handler = h.Handler.WithGroup(name)
	return &clone
}

func formatHandler(w io.Writer, conf Config) slog.Handler {
	level := parseToSlogLevel(conf.Level)
	replaceAttr := func(groups []string, a slog.Attr) slog.Attr {
		if conf.DisableTime && a.Key == slog.TimeKey && len(groups) == 0 {
			return slog.Attr{}
		}
		return a
	}

	if strings.ToLower(conf.Format) == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource:   conf.Verbose,
			Level:       level,
			ReplaceAttr: replaceAttr,
		})
	}

	return tint.NewHandler(w, &tint.Options{
		AddSource:   conf.Verbose,
		Level:       level,
		ReplaceAttr: replaceAttr,
		NoColor:     color.NoColor || conf.Output != "",
	})
}
