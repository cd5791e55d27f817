package cli

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yomorun/flightdata/core/frame"
	"github.com/yomorun/flightdata/core/yerr"
)

const generatorLayout = `
name: generator
sensors:
  - name: counter
    id: 3
    values:
      - name: value
        data_type: int_32
`

var generatorSample = []byte{3, 0, 0, 0, 7, 3, 0, 0, 0, 9}

func execute(t *testing.T, args ...string) (string, int) {
	t.Helper()
	color.NoColor = true
	var out bytes.Buffer
	code := run(args, &out)
	return out.String(), code
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGenAndDecode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flight.bin")

	out, code := execute(t, "gen", "--pair", "7,9", "--vector", "1, 0.5, -2", "--pair", "-1,2", path)
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Wrote 3 records (31 bytes)")

	want := frame.Encode([]frame.Record{
		frame.IntegerPairRecord{A: 7, B: 9},
		frame.Vector3Record{X: 1, Y: 0.5, Z: -2},
		frame.IntegerPairRecord{A: -1, B: 2},
	})
	assert.Equal(t, string(want), readFile(t, path))

	out, code = execute(t, "decode", path)
	require.Equal(t, 0, code, out)
	assert.Equal(t, "0\tIntegerPair(a=7, b=9)\n"+
		"9\tVector3(x=1, y=0.5, z=-2)\n"+
		"22\tIntegerPair(a=-1, b=2)\n", out)

	out, code = execute(t, "decode", "--format", "json", path)
	require.Equal(t, 0, code, out)
	assert.Equal(t, `{"offset":0,"tag":"IntegerPair","a":7,"b":9}`+"\n"+
		`{"offset":9,"tag":"Vector3","x":1,"y":0.5,"z":-2}`+"\n"+
		`{"offset":22,"tag":"IntegerPair","a":-1,"b":2}`+"\n", out)
}

func TestDecodeJSONNonFinite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nan.bin")
	_, code := execute(t, "gen", "--vector", "NaN,+Inf,0", path)
	require.Equal(t, 0, code)

	out, code := execute(t, "decode", "--format", "json", path)

	require.Equal(t, 0, code, out)
	assert.Equal(t, `{"offset":0,"tag":"Vector3","x":"NaN","y":"+Inf","z":0}`+"\n", out)
}

func TestVectorOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.bin")
	_, code := execute(t, "gen", "--vector-order", "BIG", "--vector", "1,2,3", path)
	require.Equal(t, 0, code)

	data := []byte(readFile(t, path))
	assert.Equal(t, float32(1), math.Float32frombits(binary.BigEndian.Uint32(data[1:5])))

	out, code := execute(t, "decode", path)
	require.Equal(t, 0, code)
	assert.NotEqual(t, "0\tVector3(x=1, y=2, z=3)\n", out)

	t.Setenv("FLIGHTDATA_VECTOR_ORDER", "big")
	out, code = execute(t, "decode", path)
	require.Equal(t, 0, code)
	assert.Equal(t, "0\tVector3(x=1, y=2, z=3)\n", out)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		args     []string
		wantCode int
		want     []string
		notWant  []string
	}{
		{
			name:     "generator sample",
			data:     generatorSample,
			wantCode: 1,
			want:     []string{"frame: unknown tag 0x09 at offset 9"},
			notWant:  []string{"IntegerPair(", "\t"},
		},
		{
			name:     "truncated after good frames",
			data:     append(frame.Encode([]frame.Record{frame.Vector3Record{X: 1}}), 3, 0, 0, 0),
			wantCode: 1,
			want:     []string{"frame: truncated IntegerPair payload at offset 13: required 8 bytes, available 3"},
			notWant:  []string{"Vector3("},
		},
		{
			name:     "truncated payload",
			data:     []byte{3, 0, 0},
			wantCode: 1,
			want:     []string{"frame: truncated IntegerPair payload at offset 0: required 8 bytes, available 2"},
		},
		{
			name:     "unknown vector order",
			data:     nil,
			args:     []string{"--vector-order", "middle"},
			wantCode: 2,
			want:     []string{`unknown byte order "middle"`},
		},
		{
			name:     "unknown format",
			data:     nil,
			args:     []string{"--format", "xml"},
			wantCode: 2,
			want:     []string{`unknown format "xml"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "flight.bin", tt.data)

			out, code := execute(t, append(append([]string{"decode"}, tt.args...), path)...)

			assert.Equal(t, tt.wantCode, code)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, out, w)
			}
		})
	}
}

func TestDecodeMissingFile(t *testing.T) {
	_, code := execute(t, "decode", filepath.Join(t.TempDir(), "missing.bin"))
	assert.Equal(t, 1, code)
}

func TestGenErrors(t *testing.T) {
	dir := t.TempDir()

	out, code := execute(t, "gen", "--pair", "1", filepath.Join(dir, "a.bin"))
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "want 2 integers, got 1 values")

	out, code = execute(t, "gen", "--vector", "1,x,3", filepath.Join(dir, "b.bin"))
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "invalid syntax")

	out, code = execute(t, "gen", filepath.Join(dir, "c.bin"))
	assert.Equal(t, 2, code)
	assert.Contains(t, out, "no records to write")
}

func TestConvert(t *testing.T) {
	layout := writeFile(t, "generator.yaml", []byte(generatorLayout))
	data := writeFile(t, "flight.bin", generatorSample)
	output := filepath.Join(t.TempDir(), "out", "flight.csv")

	out, code := execute(t, "convert", "-c", layout, "--to", "csv", data, output)

	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "converted 2 packets (10 bytes)")
	assert.Equal(t, "counter_value\n7\n9\n", readFile(t, output))
}

func TestConvertDefaultLayoutFromEnv(t *testing.T) {
	data := writeFile(t, "flight.bin", frame.Encode([]frame.Record{
		frame.Vector3Record{X: 1, Y: 2, Z: 3},
		frame.IntegerPairRecord{A: 7, B: 9},
	}))
	output := filepath.Join(t.TempDir(), "flight.csv")
	t.Setenv("FLIGHTDATA_COLUMNS", "vector_x pair_a")

	out, code := execute(t, "convert", data, output)

	require.Equal(t, 0, code, out)
	assert.Equal(t, "vector_x,pair_a\n1.00000000,7\n", readFile(t, output))
}

func TestConvertErrors(t *testing.T) {
	duplicate := writeFile(t, "duplicate.yaml", []byte(`
name: duplicate
sensors:
  - {name: a, id: 4, values: [{name: v, data_type: int_8}]}
  - {name: b, id: 4, values: [{name: v, data_type: int_8}]}
`))
	layout := writeFile(t, "generator.yaml", []byte(generatorLayout))
	wrongExt := writeFile(t, "generator.txt", []byte(generatorLayout))
	data := writeFile(t, "flight.bin", generatorSample)
	bad := writeFile(t, "bad.bin", []byte{3, 0, 0, 0, 7, 4})
	output := filepath.Join(t.TempDir(), "out")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		want     string
	}{
		{"unknown format", []string{"--to", "xml", data, output}, 1, `export: unsupport "xml" format`},
		{"duplicate ids", []string{"-c", duplicate, data, output}, 2, "multiple sensors with ID: 4"},
		{"config extension", []string{"-c", wrongExt, data, output}, 2, "the extension of config is incorrect"},
		{"invalid packet id", []string{"-c", layout, bad, output}, 1, "invalid packet id: 4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, code := execute(t, append([]string{"convert"}, tt.args...)...)

			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, out, tt.want)
			assert.NoFileExists(t, output)
		})
	}
}

func TestConvertFailureKeepsOutput(t *testing.T) {
	layout := writeFile(t, "generator.yaml", []byte(generatorLayout))
	// the second packet has an unknown id after one good packet
	bad := writeFile(t, "bad.bin", []byte{3, 0, 0, 0, 7, 4})
	output := writeFile(t, "flight.csv", []byte("counter_value\n1\n"))

	_, code := execute(t, "convert", "-c", layout, bad, output)

	assert.Equal(t, 1, code)
	assert.Equal(t, "counter_value\n1\n", readFile(t, output))
	entries, err := os.ReadDir(filepath.Dir(output))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCheck(t *testing.T) {
	layout := writeFile(t, "generator.yaml", []byte(generatorLayout))

	out, code := execute(t, "check", "-c", layout)
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Rocket: generator")
	assert.Contains(t, out, "Sensor 3 counter: 4 bytes BigEndian, columns counter_value")
	assert.Contains(t, out, "is valid")

	out, code = execute(t, "check")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Sensor 1 vector: 12 bytes LittleEndian, columns vector_x,vector_y,vector_z")
	assert.Contains(t, out, "Layout built-in is valid")
}

func TestReport(t *testing.T) {
	layout := writeFile(t, "generator.yaml", []byte(generatorLayout))
	data := writeFile(t, "flight.bin", generatorSample)
	output := filepath.Join(t.TempDir(), "report.tex")

	out, code := execute(t, "report", "-c", layout, "--run-id", "run1", data, output)

	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Run run1 reported 2 rows")
	tex := readFile(t, output)
	assert.Contains(t, tex, `\documentclass{article}`)
	assert.Contains(t, tex, `\section{Sensor Data}`)
	assert.Contains(t, tex, "Conversion run run1 decoded 2 rows.")
	assert.Contains(t, tex, "The maximum value is 9.")
}

func TestSchema(t *testing.T) {
	out, code := execute(t, "schema")
	require.Equal(t, 0, code)
	assert.Contains(t, out, `"$defs"`)

	path := filepath.Join(t.TempDir(), "rocket.schema.json")
	_, code = execute(t, "schema", "-o", path)
	require.Equal(t, 0, code)
	assert.Contains(t, readFile(t, path), `"Sensor"`)
}

func TestVersion(t *testing.T) {
	out, code := execute(t, "--version")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "flightdata version")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"plain", errors.New("disk full"), 1},
		{"config", yerr.New(yerr.ErrorCodeConfig, errors.New("bad layout")), 2},
		{"usage", usageErrorf("bad flag"), 2},
		{"decode", yerr.New(yerr.ErrorCodeUnknownTag, errors.New("unknown tag")), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
