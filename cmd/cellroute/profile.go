package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// runProfile pre-supplies CLI flags from a YAML file so batch and
// regression runs don't need a long command line. Fields left at their
// zero value do not override the corresponding flag.
type runProfile struct {
	Infile  string `yaml:"infile"`
	Outfile string `yaml:"outfile"`
	Sec     int    `yaml:"sec"`
	Min     int    `yaml:"min"`
	Hr      int    `yaml:"hr"`
	Cell    bool   `yaml:"cell"`
	Net     bool   `yaml:"net"`
}

func loadProfile(path string) (runProfile, error) {
	var p runProfile
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("profile: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("profile: %w", err)
	}
	return p, nil
}

// apply merges p's non-zero fields over o, with explicit CLI flags taking
// precedence over the profile for anything already set on o.
func (p runProfile) apply(o cliOptions) cliOptions {
	if o.infile == "" {
		o.infile = p.Infile
	}
	if o.outfile == "" {
		o.outfile = p.Outfile
	}
	if o.sec == 0 {
		o.sec = p.Sec
	}
	if o.min == 0 {
		o.min = p.Min
	}
	if o.hr == 0 {
		o.hr = p.Hr
	}
	if !o.cell {
		o.cell = p.Cell
	}
	if !o.net {
		o.net = p.Net
	}
	return o
}
