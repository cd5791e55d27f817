package cli

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yomorun/flightdata/core/frame"
	"github.com/yomorun/flightdata/pkg/file"
	"github.com/yomorun/flightdata/pkg/log"
)

// GenOptions are the options for gen command.
type GenOptions struct {
	// Records are the records to write in command line order.
	Records []frame.Record
	// VectorOrder is the byte order of Vector3 fields, little or big.
	VectorOrder string
}

// NewCmdGen creates a new command gen.
func NewCmdGen() *cobra.Command {
	var opts GenOptions

	var cmd = &cobra.Command{
		Use:     "gen [flags] <output>",
		Short:   "Generate a fixed format frame file",
		Long:    "Generate a file of IntegerPair and Vector3 frames, in the order the flags are given.",
		Example: "  flightdata gen --pair 7,9 --vector 1,0.5,-2 --pair 1,2 flight.bin",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			v := bindViper(cmd)
			loadViperValue(cmd, v, &opts.VectorOrder, "vector-order")

			order, err := parseByteOrder(opts.VectorOrder)
			if err != nil {
				return err
			}
			if len(opts.Records) == 0 {
				return usageErrorf("no records to write, use --pair or --vector")
			}

			out, err := file.Create(args[0])
			if err != nil {
				return err
			}
			defer closeFile(out, &err)

			bw := bufio.NewWriter(out)
			w := frame.NewWriter(bw, frame.WithVectorByteOrder(order))
			size := 0
			for _, rec := range opts.Records {
				if err := w.WriteRecord(rec); err != nil {
					return err
				}
				n, _ := rec.Tag().PayloadSize()
				size += 1 + n
			}
			if err := bw.Flush(); err != nil {
				return err
			}

			log.SuccessStatusEvent(cmd.OutOrStdout(), "Wrote %d records (%d bytes) to %s", len(opts.Records), size, args[0])
			return nil
		},
	}

	cmd.Flags().Var(&recordsValue{records: &opts.Records, tag: frame.TagIntegerPair}, "pair", "append an IntegerPair record a,b (repeatable)")
	cmd.Flags().Var(&recordsValue{records: &opts.Records, tag: frame.TagVector3}, "vector", "append a Vector3 record x,y,z (repeatable)")
	cmd.Flags().StringVar(&opts.VectorOrder, "vector-order", "little", "byte order of Vector3 fields (little|big)")

	return cmd
}

// recordsValue is a pflag.Value appending records of one tag to a list
// shared by several flags.
type recordsValue struct {
	records *[]frame.Record
	tag     frame.Tag
}

func (v *recordsValue) String() string { return "" }

func (v *recordsValue) Type() string {
	if v.tag == frame.TagVector3 {
		return "x,y,z"
	}
	return "a,b"
}

func (v *recordsValue) Set(s string) error {
	fields := strings.Split(s, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	switch v.tag {
	case frame.TagIntegerPair:
		if len(fields) != 2 {
			return fmt.Errorf("want 2 integers, got %d values", len(fields))
		}
		var ab [2]int32
		for i, f := range fields {
			n, err := strconv.ParseInt(f, 10, 32)
			if err != nil {
				return err
			}
			ab[i] = int32(n)
		}
		*v.records = append(*v.records, frame.IntegerPairRecord{A: ab[0], B: ab[1]})
	case frame.TagVector3:
		if len(fields) != 3 {
			return fmt.Errorf("want 3 floats, got %d values", len(fields))
		}
		var xyz [3]float32
		for i, f := range fields {
			n, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return err
			}
			xyz[i] = float32(n)
		}
		*v.records = append(*v.records, frame.Vector3Record{X: xyz[0], Y: xyz[1], Z: xyz[2]})
	}
	return nil
}
