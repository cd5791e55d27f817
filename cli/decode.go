package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/yomorun/flightdata/core/frame"
	"github.com/yomorun/flightdata/core/ylog"
)

// DecodeOptions are the options for decode command.
type DecodeOptions struct {
	// VectorOrder is the byte order of Vector3 fields, little or big.
	VectorOrder string
	// Format is the output format, text or json.
	Format string
}

// NewCmdDecode creates a new command decode.
func NewCmdDecode() *cobra.Command {
	var opts DecodeOptions

	var cmd = &cobra.Command{
		Use:   "decode [flags] <data>",
		Short: "Decode a fixed format frame file",
		Long:  "Decode a file of IntegerPair and Vector3 frames and print one record per line. Nothing is printed but the error if any frame is malformed.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := bindViper(cmd)
			loadViperValue(cmd, v, &opts.VectorOrder, "vector-order")
			loadViperValue(cmd, v, &opts.Format, "format")

			order, err := parseByteOrder(opts.VectorOrder)
			if err != nil {
				return err
			}
			var write func(w io.Writer, offset int, rec frame.Record) error
			switch opts.Format {
			case "text":
				write = writeTextRecord
			case "json":
				write = writeJSONRecord
			default:
				return usageErrorf("unknown format %q, it should be text or json", opts.Format)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			// all or nothing: a malformed frame anywhere prints only the error
			records, end, err := frame.NewDecoder(frame.WithVectorByteOrder(order)).Decode(data)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			ylog.Debug("decode done", "file", args[0], "records", len(records), "bytes", end)

			w := bufio.NewWriter(cmd.OutOrStdout())
			offset := 0
			for _, rec := range records {
				if err := write(w, offset, rec); err != nil {
					return err
				}
				size, _ := rec.Tag().PayloadSize()
				offset += 1 + size
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&opts.VectorOrder, "vector-order", "little", "byte order of Vector3 fields (little|big)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "output format (text|json)")

	return cmd
}

func writeTextRecord(w io.Writer, offset int, rec frame.Record) error {
	_, err := fmt.Fprintf(w, "%d\t%s\n", offset, rec)
	return err
}

type jsonRecord struct {
	Offset int        `json:"offset"`
	Tag    string     `json:"tag"`
	A      *int32     `json:"a,omitempty"`
	B      *int32     `json:"b,omitempty"`
	X      *jsonFloat `json:"x,omitempty"`
	Y      *jsonFloat `json:"y,omitempty"`
	Z      *jsonFloat `json:"z,omitempty"`
}

func writeJSONRecord(w io.Writer, offset int, rec frame.Record) error {
	out := jsonRecord{Offset: offset, Tag: rec.Tag().String()}
	switch r := rec.(type) {
	case frame.IntegerPairRecord:
		out.A, out.B = &r.A, &r.B
	case frame.Vector3Record:
		x, y, z := jsonFloat(r.X), jsonFloat(r.Y), jsonFloat(r.Z)
		out.X, out.Y, out.Z = &x, &y, &z
	}
	b, err := json.Marshal(out)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// jsonFloat marshals to the shortest float32 text. NaN and infinities are
// written as strings.
type jsonFloat float32

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	s := strconv.FormatFloat(float64(f), 'g', -1, 32)
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		s = strconv.Quote(s)
	}
	return []byte(s), nil
}
