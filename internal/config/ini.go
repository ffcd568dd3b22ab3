package config

import (
	"bytes"
	"fmt"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// iniCodec lets viper read sectioned key/value files such as config.ini.
// Each [section] becomes a nested map; keys outside any section sit at the top level.
type iniCodec struct{}

func (iniCodec) Decode(b []byte, v map[string]any) error {
	file, err := ini.Load(b)
	if err != nil {
		return fmt.Errorf("failed to parse ini: %w", err)
	}
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection {
			for _, key := range section.Keys() {
				v[key.Name()] = key.Value()
			}
			continue
		}
		values := make(map[string]any, len(section.Keys()))
		for _, key := range section.Keys() {
			values[key.Name()] = key.Value()
		}
		v[section.Name()] = values
	}
	return nil
}

func (iniCodec) Encode(v map[string]any) ([]byte, error) {
	file := ini.Empty()
	for name, value := range v {
		values, ok := value.(map[string]any)
		if !ok {
			file.Section("").Key(name).SetValue(fmt.Sprint(value))
			continue
		}
		section := file.Section(name)
		for key, val := range values {
			section.Key(key).SetValue(fmt.Sprint(val))
		}
	}
	var buf bytes.Buffer
	if _, err := file.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write ini: %w", err)
	}
	return buf.Bytes(), nil
}

// newViper returns a viper instance that also understands .ini files.
func newViper() *viper.Viper {
	codecs := viper.NewCodecRegistry()
	// RegisterCodec only fails on an empty format name.
	_ = codecs.RegisterCodec("ini", iniCodec{})
	return viper.NewWithOptions(viper.WithCodecRegistry(codecs))
}
