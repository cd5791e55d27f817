package export

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/yomorun/flightdata/core/packet"
	"github.com/yomorun/flightdata/pkg/config"
)

func init() {
	Register(msgpackExporter{})
}

// MsgpackPacket is the MessagePack form of one packet.
type MsgpackPacket struct {
	ID     uint8          `msgpack:"id"`
	Sensor string         `msgpack:"sensor"`
	Values map[string]any `msgpack:"values"`
}

// msgpackExporter writes one MsgpackPacket per packet, without table assembly.
type msgpackExporter struct{}

func (msgpackExporter) Name() string { return "msgpack" }

func (msgpackExporter) Export(w io.Writer, src packet.Source, layout *config.Rocket, _ Options) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)

	return eachPacket(src, func(p packet.Packet) error {
		sensor, err := packet.Check(layout, p)
		if err != nil {
			return err
		}
		values := make(map[string]any, len(p.Values))
		for i, v := range p.Values {
			values[sensor.Values[i].Name] = v.Interface()
		}
		return enc.Encode(&MsgpackPacket{
			ID:     p.ID,
			Sensor: sensor.Name,
			Values: values,
		})
	})
}
