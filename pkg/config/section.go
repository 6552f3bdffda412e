// Typed access to configuration sections
//
// Copyright (C) 2026  AI8X Go Tools
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package config

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jerren9312/ai8x-synthesis/pkg/errors"
)

// Section is one [name] block of a configuration file. Option lookups are
// case-insensitive and tracked, so unknown options can be reported later.
type Section struct {
	name     string
	options  map[string]string
	accessed map[string]struct{}
}

func newSection(name string, options map[string]string) *Section {
	return &Section{
		name:     name,
		options:  options,
		accessed: make(map[string]struct{}),
	}
}

// GetName returns the section name.
func (s *Section) GetName() string {
	return s.name
}

// HasOption checks if an option exists in this section.
func (s *Section) HasOption(option string) bool {
	_, ok := s.options[strings.ToLower(option)]
	return ok
}

func (s *Section) markAccessed(option string) {
	s.accessed[strings.ToLower(option)] = struct{}{}
}

func (s *Section) unusedOptions() []string {
	var result []string
	for opt := range s.options {
		if _, ok := s.accessed[opt]; !ok {
			result = append(result, opt)
		}
	}
	sort.Strings(result)
	return result
}

// Get returns a string option value.
// If a fallback is provided and the option doesn't exist, returns the
// fallback; with no fallback a missing option is an error.
func (s *Section) Get(option string, fallback ...string) (string, error) {
	key := strings.ToLower(option)
	if v, ok := s.options[key]; ok {
		s.markAccessed(option)
		return v, nil
	}
	if len(fallback) > 0 {
		s.markAccessed(option)
		return fallback[0], nil
	}
	return "", ErrMissingOption(s.name, option)
}

// GetInt returns an integer option value. Hex (0x), octal and binary
// prefixes are accepted.
func (s *Section) GetInt(option string, fallback ...int) (int, error) {
	key := strings.ToLower(option)
	if v, ok := s.options[key]; ok {
		s.markAccessed(option)
		i, err := strconv.ParseInt(strings.TrimSpace(v), 0, 64)
		if err != nil {
			return 0, ErrInvalidValue(s.name, option, v, "integer")
		}
		return int(i), nil
	}
	if len(fallback) > 0 {
		s.markAccessed(option)
		return fallback[0], nil
	}
	return 0, ErrMissingOption(s.name, option)
}

// GetIntWithBounds returns an integer option value with bounds checking.
func (s *Section) GetIntWithBounds(option string, minVal, maxVal *int, fallback ...int) (int, error) {
	v, err := s.GetInt(option, fallback...)
	if err != nil {
		return 0, err
	}
	if minVal != nil && v < *minVal {
		return 0, ErrOutOfRange(s.name, option, v, "must have minimum of "+strconv.Itoa(*minVal))
	}
	if maxVal != nil && v > *maxVal {
		return 0, ErrOutOfRange(s.name, option, v, "must have maximum of "+strconv.Itoa(*maxVal))
	}
	return v, nil
}

// GetUint32 returns a 32-bit unsigned option value, typically an address.
// Hex (0x) prefixes are accepted.
func (s *Section) GetUint32(option string, fallback ...uint32) (uint32, error) {
	key := strings.ToLower(option)
	if v, ok := s.options[key]; ok {
		s.markAccessed(option)
		u, err := strconv.ParseUint(strings.TrimSpace(v), 0, 32)
		if err != nil {
			return 0, ErrInvalidValue(s.name, option, v, "32-bit unsigned integer")
		}
		return uint32(u), nil
	}
	if len(fallback) > 0 {
		s.markAccessed(option)
		return fallback[0], nil
	}
	return 0, ErrMissingOption(s.name, option)
}

// GetBool returns a boolean option value.
// Accepts: 1, true, yes, on (true) and 0, false, no, off (false).
func (s *Section) GetBool(option string, fallback ...bool) (bool, error) {
	key := strings.ToLower(option)
	if v, ok := s.options[key]; ok {
		s.markAccessed(option)
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true, nil
		case "0", "false", "no", "off":
			return false, nil
		default:
			return false, ErrInvalidValue(s.name, option, v, "boolean (true/false/yes/no/on/off/1/0)")
		}
	}
	if len(fallback) > 0 {
		s.markAccessed(option)
		return fallback[0], nil
	}
	return false, ErrMissingOption(s.name, option)
}

// GetChoice returns a string option that must be one of the valid choices.
func (s *Section) GetChoice(option string, choices []string, fallback ...string) (string, error) {
	v, err := s.Get(option, fallback...)
	if err != nil {
		return "", err
	}
	for _, c := range choices {
		if strings.EqualFold(v, c) {
			return c, nil
		}
	}
	return "", ErrInvalidChoice(s.name, option, v, choices)
}

// RawOptions returns a copy of all options in this section.
func (s *Section) RawOptions() map[string]string {
	out := make(map[string]string, len(s.options))
	for k, v := range s.options {
		out[k] = v
	}
	return out
}

// Error constructors shared by Config and Section.

// ErrMissingSection reports a section that does not exist.
func ErrMissingSection(section string) error {
	return errors.ConfigSectionError(section)
}

// ErrMissingOption reports an option that does not exist.
func ErrMissingOption(section, option string) error {
	return errors.ConfigOptionError(section, option)
}

// ErrInvalidValue reports an option value that failed type conversion.
func ErrInvalidValue(section, option, value, targetType string) error {
	return errors.ConfigTypeError(section, option, value, targetType, nil)
}

// ErrOutOfRange reports an option value outside its allowed bounds.
func ErrOutOfRange(section, option string, value int, reason string) error {
	return errors.ConfigValidationError(section, option,
		strconv.Itoa(value)+" "+reason)
}

// ErrInvalidChoice reports an option value not among the valid choices.
func ErrInvalidChoice(section, option, value string, choices []string) error {
	return errors.ConfigValidationError(section, option,
		"value '"+value+"' must be one of: "+strings.Join(choices, ", "))
}
