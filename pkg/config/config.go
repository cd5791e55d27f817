// Package config provides the rocket layout that describes which sensors write
// packets into a flight recording and what values each packet carries.
package config

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v3"
)

// Kind is the scalar type of a recorded value.
type Kind string

// Kinds of values a sensor may record.
const (
	KindInt8    Kind = "int_8"
	KindInt16   Kind = "int_16"
	KindInt32   Kind = "int_32"
	KindInt64   Kind = "int_64"
	KindUint8   Kind = "uint_8"
	KindUint16  Kind = "uint_16"
	KindUint32  Kind = "uint_32"
	KindUint64  Kind = "uint_64"
	KindFloat32 Kind = "float_32"
	KindFloat64 Kind = "float_64"
)

var kindSizes = map[Kind]int{
	KindInt8:    1,
	KindInt16:   2,
	KindInt32:   4,
	KindInt64:   8,
	KindUint8:   1,
	KindUint16:  2,
	KindUint32:  4,
	KindUint64:  8,
	KindFloat32: 4,
	KindFloat64: 8,
}

// Size returns the number of bytes a value of this kind occupies, 0 for an
// unknown kind.
func (k Kind) Size() int { return kindSizes[k] }

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := kindSizes[k]
	return ok
}

// IsFloat reports whether k is a floating point kind.
func (k Kind) IsFloat() bool { return k == KindFloat32 || k == KindFloat64 }

// IsSigned reports whether k is a signed integer kind.
func (k Kind) IsSigned() bool {
	return k == KindInt8 || k == KindInt16 || k == KindInt32 || k == KindInt64
}

// Endianness is the byte order multi-byte values are recorded in.
type Endianness string

const (
	// BigEndian is the default byte order.
	BigEndian Endianness = "big"
	// LittleEndian byte order.
	LittleEndian Endianness = "little"
)

// UnmarshalYAML accepts the byte order case-insensitively.
func (e *Endianness) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	*e = Endianness(strings.ToLower(strings.TrimSpace(s)))
	return nil
}

// UnmarshalJSON accepts the byte order case-insensitively.
func (e *Endianness) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*e = Endianness(strings.ToLower(strings.TrimSpace(s)))
	return nil
}

// ByteOrder returns the binary.ByteOrder of e. The empty value is big-endian.
func (e Endianness) ByteOrder() binary.ByteOrder {
	if e == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

func (e Endianness) valid() bool { return e == "" || e == BigEndian || e == LittleEndian }

// Value is a single named value of a sensor.
type Value struct {
	// Name is the name of the value.
	Name string `yaml:"name" json:"name" jsonschema:"description=Name of the value unique within its sensor"`
	// DataType is the kind of data that is read and stored.
	DataType Kind `yaml:"data_type" json:"data_type" jsonschema:"enum=int_8,enum=int_16,enum=int_32,enum=int_64,enum=uint_8,enum=uint_16,enum=uint_32,enum=uint_64,enum=float_32,enum=float_64"`
}

// Sensor is a collection of values that are read at the same time and written
// as one packet.
type Sensor struct {
	// Name is the name of the sensor.
	Name string `yaml:"name" json:"name"`
	// ID is the first byte of every packet this sensor writes.
	ID uint8 `yaml:"id" json:"id"`
	// Endianness overrides the rocket byte order for this sensor.
	Endianness Endianness `yaml:"endianness,omitempty" json:"endianness,omitempty" jsonschema:"enum=big,enum=little"`
	// Values are the values of every packet, in recording order.
	Values []Value `yaml:"values" json:"values"`
}

// PayloadSize returns the number of bytes following the id byte of a packet.
func (s *Sensor) PayloadSize() int {
	size := 0
	for _, v := range s.Values {
		size += v.DataType.Size()
	}
	return size
}

// ColumnName is the table column of one value of s.
func (s *Sensor) ColumnName(v Value) string {
	return s.Name + "_" + v.Name
}

// Rocket is the layout of a flight recording.
type Rocket struct {
	// Name is the name of the rocket that is launching.
	Name string `yaml:"name" json:"name"`
	// DisplayName is the human readable name used in reports.
	DisplayName string `yaml:"display_name,omitempty" json:"display_name,omitempty"`
	// Description describes the flight.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	// Endianness is the byte order of every sensor without an override.
	Endianness Endianness `yaml:"endianness,omitempty" json:"endianness,omitempty" jsonschema:"enum=big,enum=little"`
	// Sensors are the sensors that are on the rocket.
	Sensors []Sensor `yaml:"sensors" json:"sensors"`
}

// legacyEndiannessKey is the misspelled key older layout files carry.
const legacyEndiannessKey = "endianess"

// mergeEndianness resolves the endianness key and its legacy spelling.
func mergeEndianness(owner string, e, legacy Endianness) (Endianness, error) {
	switch {
	case legacy == "":
		return e, nil
	case e == "" || e == legacy:
		return legacy, nil
	}
	return "", fmt.Errorf("config: %s has conflicting endianness %q and %s %q", owner, e, legacyEndiannessKey, legacy)
}

// UnmarshalJSON accepts the legacy endianess key.
func (s *Sensor) UnmarshalJSON(b []byte) error {
	type sensor Sensor
	var aux struct {
		sensor
		Legacy Endianness `json:"endianess"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	return s.setFrom(Sensor(aux.sensor), aux.Legacy)
}

// UnmarshalYAML accepts the legacy endianess key.
func (s *Sensor) UnmarshalYAML(value *yaml.Node) error {
	type sensor Sensor
	var aux struct {
		sensor `yaml:",inline"`
		Legacy Endianness `yaml:"endianess"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	return s.setFrom(Sensor(aux.sensor), aux.Legacy)
}

func (s *Sensor) setFrom(decoded Sensor, legacy Endianness) error {
	e, err := mergeEndianness("sensor "+decoded.Name, decoded.Endianness, legacy)
	if err != nil {
		return err
	}
	*s = decoded
	s.Endianness = e
	return nil
}

// UnmarshalJSON accepts the legacy endianess key.
func (r *Rocket) UnmarshalJSON(b []byte) error {
	type rocket Rocket
	var aux struct {
		rocket
		Legacy Endianness `json:"endianess"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	return r.setFrom(Rocket(aux.rocket), aux.Legacy)
}

// UnmarshalYAML accepts the legacy endianess key.
func (r *Rocket) UnmarshalYAML(value *yaml.Node) error {
	type rocket Rocket
	var aux struct {
		rocket `yaml:",inline"`
		Legacy Endianness `yaml:"endianess"`
	}
	if err := value.Decode(&aux); err != nil {
		return err
	}
	return r.setFrom(Rocket(aux.rocket), aux.Legacy)
}

func (r *Rocket) setFrom(decoded Rocket, legacy Endianness) error {
	e, err := mergeEndianness("rocket "+decoded.Name, decoded.Endianness, legacy)
	if err != nil {
		return err
	}
	*r = decoded
	r.Endianness = e
	return nil
}

// Validate checks the layout is usable for decoding.
func (r *Rocket) Validate() error {
	if r.Name == "" {
		return errors.New("config: the name is required")
	}
	if !r.Endianness.valid() {
		return fmt.Errorf("config: unknown endianness %q", r.Endianness)
	}

	ids := make(map[uint8]struct{}, len(r.Sensors))
	for _, s := range r.Sensors {
		if _, ok := ids[s.ID]; ok {
			return fmt.Errorf("config: multiple sensors with ID: %d", s.ID)
		}
		ids[s.ID] = struct{}{}

		if s.Name == "" {
			return fmt.Errorf("config: sensor %d must have name value", s.ID)
		}
		if !s.Endianness.valid() {
			return fmt.Errorf("config: sensor %s has unknown endianness %q", s.Name, s.Endianness)
		}

		names := make(map[string]struct{}, len(s.Values))
		for _, v := range s.Values {
			if v.Name == "" {
				return fmt.Errorf("config: the values of sensor %s must have name value", s.Name)
			}
			if _, ok := names[v.Name]; ok {
				return fmt.Errorf("config: sensor %s has multiple values named %s", s.Name, v.Name)
			}
			names[v.Name] = struct{}{}
			if !v.DataType.Valid() {
				return fmt.Errorf("config: value %s of sensor %s has unknown data type %q", v.Name, s.Name, v.DataType)
			}
		}
	}

	return nil
}

// SensorByID returns the sensor recording packets with id.
func (r *Rocket) SensorByID(id uint8) (*Sensor, bool) {
	for i := range r.Sensors {
		if r.Sensors[i].ID == id {
			return &r.Sensors[i], true
		}
	}
	return nil, false
}

// DisplayLabel returns the display name, or the name if it is not set.
func (r *Rocket) DisplayLabel() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Name
}

// ByteOrder returns the byte order the values of s are recorded in.
func (r *Rocket) ByteOrder(s *Sensor) binary.ByteOrder {
	if s != nil && s.Endianness != "" {
		return s.Endianness.ByteOrder()
	}
	return r.Endianness.ByteOrder()
}

// Columns returns the table columns of every value in layout order.
func (r *Rocket) Columns() []string {
	var columns []string
	for i := range r.Sensors {
		s := &r.Sensors[i]
		for _, v := range s.Values {
			columns = append(columns, s.ColumnName(v))
		}
	}
	return columns
}

// Default returns the built-in layout of the fixed record format: sensor 1
// writes a little-endian float_32 vector and sensor 3 a big-endian int_32 pair.
func Default() *Rocket {
	return &Rocket{
		Name:       "flightdata",
		Endianness: BigEndian,
		Sensors: []Sensor{
			{
				Name:       "vector",
				ID:         1,
				Endianness: LittleEndian,
				Values: []Value{
					{Name: "x", DataType: KindFloat32},
					{Name: "y", DataType: KindFloat32},
					{Name: "z", DataType: KindFloat32},
				},
			},
			{
				Name: "pair",
				ID:   3,
				Values: []Value{
					{Name: "a", DataType: KindInt32},
					{Name: "b", DataType: KindInt32},
				},
			},
		},
	}
}

// ErrConfigExt represents the extension of config file is incorrect.
var ErrConfigExt = errors.New(`config: the extension of config is incorrect, it should be ".yaml|.yml|.json"`)

// ParseConfigFile parses the layout from configPath.
func ParseConfigFile(configPath string) (*Rocket, error) {
	switch filepath.Ext(configPath) {
	case ".yaml", ".yml", ".json":
	default:
		return nil, ErrConfigExt
	}

	buf, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	return Parse(buf)
}

// Parse parses a YAML or JSON layout and validates it.
func Parse(data []byte) (*Rocket, error) {
	var rocket Rocket
	if isJSON(data) {
		if err := json.Unmarshal(data, &rocket); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &rocket); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := rocket.Validate(); err != nil {
		return nil, err
	}

	return &rocket, nil
}

func isJSON(data []byte) bool {
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, "{")
}

// Schema returns the JSON Schema of layout files.
func Schema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	schema := r.Reflect(&Rocket{})
	return json.MarshalIndent(schema, "", "  ")
}
