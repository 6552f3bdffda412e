// Register program scripts
//
// A register script drives the APB write scheduler with one operation per
// line in "op key=value ..." form, e.g.
//
//	ctl group=0 reg=0 val=0x00000008
//	kern layer=0 ch=5 idx=2 k=01:02:03:04:05:06:07:08:09
//	byte offs=0x1000 val=0xa5
//	flush offs=0x1010
//
// Blank lines and '#' comments are skipped. Numbers accept 0x prefixes.
//
// Copyright (C) 2026  AI8X Go Tools
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package script

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/jerren9312/ai8x-synthesis/pkg/errors"
)

// Command is one parsed script operation.
type Command struct {
	// Op is the operation name, e.g. "ctl" or "kern".
	Op string

	// Line is the 1-based source line, for diagnostics.
	Line int

	args map[string]string
}

// Parse reads a register script and returns its commands in source order.
func Parse(r io.Reader) ([]Command, error) {
	var cmds []Command
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}
		cmd, err := ParseLine(line)
		if err != nil {
			if serr, ok := err.(*errors.SynthError); ok {
				errors.WithLineNumber(serr, lineNum)
			}
			return nil, err
		}
		cmd.Line = lineNum
		cmds = append(cmds, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrScriptParse, "error reading script")
	}
	return cmds, nil
}

// ParseLine parses a single "op key=value ..." line.
func ParseLine(line string) (Command, error) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return Command{}, errors.ScriptParseError(line, "empty command")
	}
	cmd := Command{
		Op:   strings.ToLower(fields[0]),
		args: make(map[string]string, len(fields)-1),
	}
	for _, f := range fields[1:] {
		kv := strings.SplitN(f, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return Command{}, errors.ScriptParseError(line, "invalid arg "+strconv.Quote(f))
		}
		cmd.args[strings.ToLower(kv[0])] = kv[1]
	}
	return cmd, nil
}

// HasArg checks whether the command carries the named parameter.
func (c *Command) HasArg(name string) bool {
	_, ok := c.args[name]
	return ok
}

// IntArg returns the named parameter as a non-negative int.
func (c *Command) IntArg(name string) (int, error) {
	raw, ok := c.args[name]
	if !ok {
		return 0, errors.ScriptMissingParameterError(c.Op, name).SetLine(c.Line)
	}
	v, err := strconv.ParseInt(raw, 0, 32)
	if err != nil || v < 0 {
		return 0, errors.ScriptInvalidParameterError(c.Op, name, raw,
			"expected a non-negative integer").SetLine(c.Line)
	}
	return int(v), nil
}

// Uint32Arg returns the named parameter as a 32-bit unsigned value.
func (c *Command) Uint32Arg(name string) (uint32, error) {
	raw, ok := c.args[name]
	if !ok {
		return 0, errors.ScriptMissingParameterError(c.Op, name).SetLine(c.Line)
	}
	v, err := strconv.ParseUint(raw, 0, 32)
	if err != nil {
		return 0, errors.ScriptInvalidParameterError(c.Op, name, raw,
			"expected a 32-bit unsigned integer").SetLine(c.Line)
	}
	return uint32(v), nil
}

// BoolArg returns the named parameter as a bool, or fallback when absent.
func (c *Command) BoolArg(name string, fallback bool) (bool, error) {
	raw, ok := c.args[name]
	if !ok {
		return fallback, nil
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, errors.ScriptInvalidParameterError(c.Op, name, raw,
		"expected a boolean").SetLine(c.Line)
}

// KernelArg returns the named parameter as nine colon-separated byte
// values, e.g. "01:02:03:04:05:06:07:08:09".
func (c *Command) KernelArg(name string) ([9]byte, error) {
	var k [9]byte
	raw, ok := c.args[name]
	if !ok {
		return k, errors.ScriptMissingParameterError(c.Op, name).SetLine(c.Line)
	}
	parts := strings.Split(raw, ":")
	if len(parts) != len(k) {
		return k, errors.ScriptInvalidParameterError(c.Op, name, raw,
			"expected nine colon-separated byte values").SetLine(c.Line)
	}
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return k, errors.ScriptInvalidParameterError(c.Op, name, raw,
				"bad byte value "+strconv.Quote(p)).SetLine(c.Line)
		}
		k[i] = byte(v)
	}
	return k, nil
}
