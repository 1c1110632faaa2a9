package config

import (
	"sort"
)

var Presets = map[string]*Config{
	"hybrid": DefaultConfig(),
	"battery-only": preset("battery-only", func(c *Config) {
		c.Generator.Enabled = false
	}),
	"simple-bank": preset("simple-bank", func(c *Config) {
		c.Battery.Model = "simple"
	}),
	"heavy-lift": preset("heavy-lift", func(c *Config) {
		c.Powertrain.NumberOfMotors = 8
		c.PayloadWeight = 20/2.20462*1000 + MountWeight*8
		c.Battery.PacksInParallel = 4
		c.Generator.MaxPower = 7000
	}),
	"long-range": preset("long-range", func(c *Config) {
		c.PayloadWeight = 5/2.20462*1000 + MountWeight*DefaultMotors
		c.Generator.TankCapacity = 12
		c.Sim.Dt = 1
	}),
}

func preset(name string, fn func(c *Config)) *Config {
	c := DefaultConfig()
	c.Name = name
	fn(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
