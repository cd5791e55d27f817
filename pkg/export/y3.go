package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yomorun/flightdata/core/packet"
	"github.com/yomorun/flightdata/pkg/config"
	"github.com/yomorun/y3"
)

func init() {
	Register(y3Exporter{})
}

var (
	tagY3Packet  byte = 0x10
	tagY3ID      byte = 0x01
	tagY3Sensor  byte = 0x02
	tagY3Payload byte = 0x03
)

// y3Exporter writes one y3 node packet per packet, carrying the sensor id,
// the sensor name and the raw payload in layout byte order.
type y3Exporter struct{}

func (y3Exporter) Name() string { return "y3" }

func (y3Exporter) Export(w io.Writer, src packet.Source, layout *config.Rocket, _ Options) error {
	var buf []byte
	return eachPacket(src, func(p packet.Packet) error {
		sensor, err := packet.Check(layout, p)
		if err != nil {
			return err
		}
		buf, err = packet.AppendPacket(buf[:0], layout, p)
		if err != nil {
			return err
		}
		_, err = w.Write(encodeY3Packet(p.ID, sensor.Name, buf[1:]))
		return err
	})
}

// encodeY3Packet returns Y3 encoded bytes of a packet.
func encodeY3Packet(id uint8, sensor string, payload []byte) []byte {
	idPacket := y3.NewPrimitivePacketEncoder(tagY3ID)
	idPacket.SetUInt32Value(uint32(id))

	sensorPacket := y3.NewPrimitivePacketEncoder(tagY3Sensor)
	sensorPacket.SetStringValue(sensor)

	payloadPacket := y3.NewPrimitivePacketEncoder(tagY3Payload)
	payloadPacket.SetBytesValue(payload)

	node := y3.NewNodePacketEncoder(tagY3Packet)
	node.AddPrimitivePacket(idPacket)
	node.AddPrimitivePacket(sensorPacket)
	node.AddPrimitivePacket(payloadPacket)

	return node.Encode()
}

// ReadY3Packet reads one packet written by the y3 exporter from r.
// It returns io.EOF when r is exhausted.
func ReadY3Packet(r io.Reader, layout *config.Rocket) (packet.Packet, error) {
	buf, err := y3.ReadPacket(r)
	if err != nil {
		return packet.Packet{}, err
	}

	node := y3.NodePacket{}
	if _, err := y3.DecodeToNodePacket(buf, &node); err != nil {
		return packet.Packet{}, err
	}

	idPacket, ok := node.PrimitivePackets[tagY3ID]
	if !ok {
		return packet.Packet{}, fmt.Errorf("export: y3 packet without id")
	}
	id, err := idPacket.ToUInt32()
	if err != nil {
		return packet.Packet{}, err
	}

	var payload []byte
	if p, ok := node.PrimitivePackets[tagY3Payload]; ok {
		payload = p.GetValBuf()
	}

	raw := make([]byte, 0, 1+len(payload))
	raw = append(raw, byte(id))
	raw = append(raw, payload...)
	return packet.NewParser(bytes.NewReader(raw), layout).Next()
}
