package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yomorun/flightdata/core/packet"
	"github.com/yomorun/flightdata/pkg/config"
)

func render(t *testing.T, e Element) string {
	t.Helper()
	var buf bytes.Buffer
	n, err := e.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	return buf.String()
}

func TestLatexElements(t *testing.T) {
	tests := []struct {
		name    string
		element Element
		want    string
	}{
		{
			name:    "empty directive",
			element: NewDirective("test"),
			want:    `\test `,
		},
		{
			name:    "argument directive",
			element: NewDirective("test", "apple"),
			want:    `\test{apple} `,
		},
		{
			name:    "options directive",
			element: &Directive{Name: "test", Opts: []string{"apple"}},
			want:    `\test[apple] `,
		},
		{
			name: "args and opts directive",
			element: &Directive{
				Name: "test",
				Opts: []string{"banana", "pair"},
				Args: []string{"apple", "cucumber"},
			},
			want: `\test[banana][pair]{apple}{cucumber} `,
		},
		{
			name:    "environment",
			element: NewEnvironment("center", Raw("some text")),
			want:    `\begin{center}  some text \end{center} `,
		},
		{
			name:    "section",
			element: Section("Sensor Data"),
			want:    `\section{Sensor Data} `,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.element))
		})
	}
}

func TestEscape(t *testing.T) {
	assert.Equal(t, `BMP\_temp 50\% \#1`, Escape("BMP_temp 50% #1"))
	assert.Equal(t, `\textbackslash{}\{x\}`, Escape(`\{x}`))
}

type failingWriter struct{ after int }

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errors.New("disk full")
	}
	f.after--
	return len(p), nil
}

func TestWriteError(t *testing.T) {
	_, err := NewEnvironment("document", Raw("a"), Raw("b")).WriteTo(&failingWriter{after: 1})
	assert.EqualError(t, err, "disk full")
}

func testLayout() *config.Rocket {
	return &config.Rocket{
		Name:        "test",
		DisplayName: "Test Rocket",
		Sensors: []config.Sensor{
			{
				ID:   0,
				Name: "imu",
				Values: []config.Value{
					{Name: "ax", DataType: config.KindFloat32},
					{Name: "count", DataType: config.KindInt32},
				},
			},
			{
				ID:   1,
				Name: "gps",
				Values: []config.Value{
					{Name: "fix", DataType: config.KindUint8},
				},
			},
		},
	}
}

func TestStats(t *testing.T) {
	layout := testLayout()
	src := packet.NewSliceSource(
		packet.Packet{ID: 0, Values: []packet.Value{packet.Float32(1.5), packet.Int32(-3)}},
		packet.Packet{ID: 0, Values: []packet.Value{packet.Float32(-2), packet.Int32(10)}},
		packet.Packet{ID: 0, Values: []packet.Value{packet.Float32(0.25), packet.Int32(4)}},
	)

	r, err := New(layout, src)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Rows())

	imu := &layout.Sensors[0]
	ax, ok := r.Stats(imu, imu.Values[0])
	require.True(t, ok)
	assert.Equal(t, ValueStats{Min: packet.Float32(-2), Max: packet.Float32(1.5), Count: 3}, ax)

	count, ok := r.Stats(imu, imu.Values[1])
	require.True(t, ok)
	assert.Equal(t, packet.Int32(-3), count.Min)
	assert.Equal(t, packet.Int32(10), count.Max)

	gps := &layout.Sensors[1]
	_, ok = r.Stats(gps, gps.Values[0])
	assert.False(t, ok)
}

func TestDocument(t *testing.T) {
	layout := testLayout()
	src := packet.NewSliceSource(
		packet.Packet{ID: 0, Values: []packet.Value{packet.Float32(1), packet.Int32(2)}},
	)
	r, err := New(layout, src)
	require.NoError(t, err)
	r.RunID = "run_1"

	var buf bytes.Buffer
	n, err := r.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	want := "\\documentclass{article}\n\n" +
		`\begin{document} ` +
		`\section{Sensor Data} ` +
		` The Test Rocket rocket has 2 sensors: imu, gps. ` +
		` Conversion run run\_1 decoded 1 rows. ` +
		`\subsection{imu} ` +
		` The imu sensor has 2 values: ax, count.  ` +
		` The ax value has 1 samples.  ` +
		` The minimum value is 1.00000000.  ` +
		` The maximum value is 1.00000000.  ` +
		` The count value has 1 samples.  ` +
		` The minimum value is 2.  ` +
		` The maximum value is 2.  ` +
		`\subsection{gps} ` +
		` The gps sensor has 1 values: fix.  ` +
		` No data was recorded for this sensor.  ` +
		`\end{document} `
	assert.Equal(t, want, buf.String())
}

func TestNewPropagatesErrors(t *testing.T) {
	_, err := New(testLayout(), packet.NewSliceSource(packet.Packet{ID: 9}))
	assert.ErrorIs(t, err, packet.ErrInvalidID)
}
