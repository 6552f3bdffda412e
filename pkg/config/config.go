// INI-style configuration files for the AI8X synthesis tools
//
// Copyright (C) 2026  AI8X Go Tools
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Config provides access to a configuration file with access tracking so
// that misspelled options can be reported after loading.
type Config struct {
	sections map[string]*Section
	order    []string // Maintains section order
}

// New creates a new empty Config.
func New() *Config {
	return &Config{
		sections: make(map[string]*Section),
	}
}

// Load reads a configuration file and returns a Config.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: unable to open %s: %w", path, err)
	}
	defer f.Close()
	c := New()
	if err := c.parse(f, path); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadString parses configuration data from a string.
func LoadString(data string) (*Config, error) {
	c := New()
	if err := c.parse(strings.NewReader(data), "<string>"); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) parse(r io.Reader, path string) error {
	var currentSection string
	var currentOptions map[string]string

	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" {
			continue
		}
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
			if line == "" {
				continue
			}
		}

		// Section header
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			if currentSection != "" {
				c.addSection(currentSection, currentOptions)
			}
			header := strings.TrimSpace(line[1 : len(line)-1])
			if header == "" {
				return fmt.Errorf("config: empty section header at line %d in %s", lineNum, path)
			}
			currentSection = header
			currentOptions = make(map[string]string)
			continue
		}

		// Skip options before first section
		if currentSection == "" {
			continue
		}

		// Option line: "key = value" or "key: value"
		var key, value string
		if idx := strings.IndexAny(line, "=:"); idx >= 0 {
			key = strings.TrimSpace(line[:idx])
			value = strings.TrimSpace(line[idx+1:])
		} else {
			return fmt.Errorf("config: malformed option at line %d in %s: %q", lineNum, path, line)
		}
		if key == "" {
			return fmt.Errorf("config: empty option name at line %d in %s", lineNum, path)
		}
		currentOptions[strings.ToLower(key)] = value
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("config: error reading %s: %w", path, err)
	}
	if currentSection != "" {
		c.addSection(currentSection, currentOptions)
	}
	return nil
}

func (c *Config) addSection(name string, options map[string]string) {
	key := strings.ToLower(name)
	if existing, ok := c.sections[key]; ok {
		// Later sections with the same name override earlier options
		for k, v := range options {
			existing.options[k] = v
		}
		return
	}
	c.sections[key] = newSection(name, options)
	c.order = append(c.order, key)
}

// GetSection returns the named section, or an error if it does not exist.
func (c *Config) GetSection(name string) (*Section, error) {
	if s, ok := c.sections[strings.ToLower(name)]; ok {
		return s, nil
	}
	return nil, ErrMissingSection(name)
}

// GetSectionOptional returns the named section or nil.
func (c *Config) GetSectionOptional(name string) *Section {
	return c.sections[strings.ToLower(name)]
}

// HasSection checks if a section exists.
func (c *Config) HasSection(name string) bool {
	_, ok := c.sections[strings.ToLower(name)]
	return ok
}

// GetSectionNames returns all section names in file order.
func (c *Config) GetSectionNames() []string {
	names := make([]string, 0, len(c.order))
	for _, key := range c.order {
		names = append(names, c.sections[key].name)
	}
	return names
}

// CheckUnusedOptions returns an error naming any option that was never
// accessed through a typed getter. Run after all sections are consumed to
// catch typos in the input file.
func (c *Config) CheckUnusedOptions() error {
	var unused []string
	for _, key := range c.order {
		s := c.sections[key]
		for _, opt := range s.unusedOptions() {
			unused = append(unused, s.name+"."+opt)
		}
	}
	if len(unused) > 0 {
		return fmt.Errorf("config: unknown options: %s", strings.Join(unused, ", "))
	}
	return nil
}
