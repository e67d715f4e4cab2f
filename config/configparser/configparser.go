/*
 * mipsevm - Configuration file parser
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package configparser reads the run configuration file that tells the
// driver which preimage-oracle server to spawn, where to load/save
// machine state, and how to route logging.
package configparser

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

/* Configuration file format:
 *
 * '#' starts a comment, rest of line is ignored.
 * <line> := 'server' <path> *(<whitespace> <arg>) |
 *           'state'  <path> |
 *           'log'    <path> |
 *           'debug'  <component> *(',' <component>)
 */

// Config is the parsed run configuration.
type Config struct {
	Server     string   // Path to the preimage-oracle server binary.
	ServerArgs []string // Arguments passed to Server.
	StatePath  string   // Path to load/save the machine-state snapshot.
	LogPath    string   // Path to write log output (stderr if empty).
	Debug      []string // Component names to enable debug logging for.
}

// LoadConfigFile reads and parses the named configuration file.
func LoadConfigFile(name string) (*Config, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := &Config{}
	scanner := bufio.NewScanner(file)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		if err := parseLine(cfg, scanner.Text(), lineNumber); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseLine applies one directive line to cfg.
func parseLine(cfg *Config, line string, lineNumber int) error {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		line = line[:idx]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	directive := strings.ToLower(fields[0])
	args := fields[1:]

	switch directive {
	case "server":
		if len(args) == 0 {
			return fmt.Errorf("server directive requires a path, line: %d", lineNumber)
		}
		cfg.Server = args[0]
		cfg.ServerArgs = args[1:]
	case "state":
		if len(args) != 1 {
			return fmt.Errorf("state directive requires exactly one path, line: %d", lineNumber)
		}
		cfg.StatePath = args[0]
	case "log":
		if len(args) != 1 {
			return fmt.Errorf("log directive requires exactly one path, line: %d", lineNumber)
		}
		cfg.LogPath = args[0]
	case "debug":
		if len(args) != 1 {
			return fmt.Errorf("debug directive requires a component list, line: %d", lineNumber)
		}
		for _, comp := range strings.Split(args[0], ",") {
			comp = strings.TrimSpace(comp)
			if comp != "" {
				cfg.Debug = append(cfg.Debug, comp)
			}
		}
	default:
		msg := fmt.Sprintf("unknown directive %q, line: %d", directive, lineNumber)
		return errors.New(msg)
	}
	return nil
}
