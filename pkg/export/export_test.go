package export

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/yomorun/flightdata/core/packet"
	"github.com/yomorun/flightdata/core/yerr"
	"github.com/yomorun/flightdata/pkg/config"
)

func testLayout() *config.Rocket {
	return &config.Rocket{
		Name: "test",
		Sensors: []config.Sensor{
			{
				ID:   0,
				Name: "test",
				Values: []config.Value{
					{Name: "value", DataType: config.KindFloat32},
					{Name: "value2", DataType: config.KindInt32},
				},
			},
			{
				ID:         1,
				Name:       "baro",
				Endianness: config.LittleEndian,
				Values: []config.Value{
					{Name: "pressure", DataType: config.KindUint16},
				},
			},
		},
	}
}

func testPackets() []packet.Packet {
	return []packet.Packet{
		{ID: 0, Values: []packet.Value{packet.Float32(1), packet.Int32(1)}},
		{ID: 0, Values: []packet.Value{packet.Float32(2), packet.Int32(2)}},
		{ID: 1, Values: []packet.Value{packet.Uint16(1013)}},
		{ID: 0, Values: []packet.Value{packet.Float32(3), packet.Int32(3)}},
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"csv", "json", "msgpack", "y3"}, Names())
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("parquet")
	assert.Error(t, err)
	assert.Equal(t, yerr.ErrorCodeExport, yerr.Code(err))
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer

	err := Export("csv", &buf, packet.NewSliceSource(testPackets()...), testLayout(), Options{})

	require.NoError(t, err)
	assert.Equal(t,
		"test_value,test_value2,baro_pressure\n"+
			"1.00000000,1,\n"+
			"2.00000000,2,1013\n"+
			"3.00000000,3,\n",
		buf.String())
}

func TestCSVColumns(t *testing.T) {
	var buf bytes.Buffer

	err := Export("csv", &buf, packet.NewSliceSource(testPackets()...), testLayout(), Options{
		Columns: []string{"test_value2"},
	})

	require.NoError(t, err)
	assert.Equal(t, "test_value2\n1\n2\n3\n", buf.String())
}

func TestCSVEmpty(t *testing.T) {
	var buf bytes.Buffer

	err := Export("csv", &buf, packet.NewSliceSource(), testLayout(), Options{})

	require.NoError(t, err)
	assert.Equal(t, "test_value,test_value2,baro_pressure\n", buf.String())
}

func TestCSVError(t *testing.T) {
	var buf bytes.Buffer
	packets := append(testPackets(), packet.Packet{ID: 7})

	err := Export("csv", &buf, packet.NewSliceSource(packets...), testLayout(), Options{})

	assert.ErrorIs(t, err, packet.ErrInvalidID)
	assert.Equal(t, "test_value,test_value2,baro_pressure\n1.00000000,1,\n2.00000000,2,1013\n", buf.String())
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	packets := append(testPackets(), packet.Packet{ID: 0, Values: []packet.Value{packet.Float32(float32(math.Inf(1))), packet.Int32(-4)}})

	err := Export("json", &buf, packet.NewSliceSource(packets...), testLayout(), Options{})
	require.NoError(t, err)

	var lines []map[string]any
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		line := make(map[string]any)
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 4)
	assert.Equal(t, map[string]any{"test_value": 1.0, "test_value2": 1.0}, lines[0])
	assert.Equal(t, map[string]any{"test_value": 2.0, "test_value2": 2.0, "baro_pressure": 1013.0}, lines[1])
	assert.Equal(t, map[string]any{"test_value": "+Inf", "test_value2": -4.0}, lines[3])
}

func TestMsgpack(t *testing.T) {
	var buf bytes.Buffer

	err := Export("msgpack", &buf, packet.NewSliceSource(testPackets()...), testLayout(), Options{})
	require.NoError(t, err)

	type decoded struct {
		ID     uint8              `msgpack:"id"`
		Sensor string             `msgpack:"sensor"`
		Values map[string]float64 `msgpack:"values"`
	}
	dec := msgpack.NewDecoder(&buf)
	var got []decoded
	for {
		var d decoded
		err := dec.Decode(&d)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, d)
	}

	require.Len(t, got, 4)
	assert.Equal(t, decoded{ID: 0, Sensor: "test", Values: map[string]float64{"value": 1, "value2": 1}}, got[0])
	assert.Equal(t, decoded{ID: 1, Sensor: "baro", Values: map[string]float64{"pressure": 1013}}, got[2])
}

func TestMsgpackInvalidValueCount(t *testing.T) {
	var buf bytes.Buffer
	src := packet.NewSliceSource(packet.Packet{ID: 1})

	err := Export("msgpack", &buf, src, testLayout(), Options{})

	assert.ErrorIs(t, err, packet.ErrInvalidValueCount)
}

func TestY3RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	layout := testLayout()

	err := Export("y3", &buf, packet.NewSliceSource(testPackets()...), layout, Options{})
	require.NoError(t, err)

	var got []packet.Packet
	for {
		p, err := ReadY3Packet(&buf, layout)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		got = append(got, p)
	}
	assert.Equal(t, testPackets(), got)
}

func TestY3Payload(t *testing.T) {
	data := encodeY3Packet(1, "baro", []byte{0xF5, 0x03})

	p, err := ReadY3Packet(bytes.NewReader(data), testLayout())

	require.NoError(t, err)
	assert.Equal(t, packet.Packet{ID: 1, Values: []packet.Value{packet.Uint16(1013)}}, p)
}
