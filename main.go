/*
 * mipsevm - Main process
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

package main

import (
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	getopt "github.com/pborman/getopt/v2"

	"github.com/rcornwell/mipsevm/command/reader"
	config "github.com/rcornwell/mipsevm/config/configparser"
	"github.com/rcornwell/mipsevm/emu/core"
	"github.com/rcornwell/mipsevm/emu/mips"
	"github.com/rcornwell/mipsevm/emu/oracle"
	"github.com/rcornwell/mipsevm/emu/state"
	logger "github.com/rcornwell/mipsevm/util/logger"
)

var Logger *slog.Logger

func main() {
	optConfig := getopt.StringLong("config", 'c', "mipsevm.cfg", "Configuration file")
	optState := getopt.StringLong("state", 's', "", "Machine state snapshot to load")
	optServer := getopt.StringLong("server", 0, "", "Preimage-oracle server binary")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.StringLong("debug", 0, "", "Comma-separated debug components")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	cfg := &config.Config{}
	if _, err := os.Stat(*optConfig); err == nil {
		loaded, err := config.LoadConfigFile(*optConfig)
		if err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
		cfg = loaded
	}
	if *optState != "" {
		cfg.StatePath = *optState
	}
	if *optServer != "" {
		cfg.Server = *optServer
	}
	if *optLogFile != "" {
		cfg.LogPath = *optLogFile
	}
	if *optDebug != "" {
		cfg.Debug = append(cfg.Debug, *optDebug)
	}

	var logFile *os.File
	if cfg.LogPath != "" {
		var err error
		logFile, err = os.Create(cfg.LogPath)
		if err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelInfo)
	debug := len(cfg.Debug) > 0
	if debug {
		programLevel.Set(slog.LevelDebug)
	}
	Logger = slog.New(logger.NewHandler(logFile, &slog.HandlerOptions{Level: programLevel, AddSource: false}, &debug))
	slog.SetDefault(Logger)

	Logger.Info("mipsevm started")

	s, err := loadOrNewState(cfg.StatePath)
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}

	var ip *mips.Interpreter
	if cfg.Server != "" {
		client, proc, err := spawnOracle(cfg.Server, cfg.ServerArgs)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
		defer proc.Wait()
		defer proc.Process.Kill()
		ip = mips.New(s, client)
	} else {
		ip = mips.New(s, nil)
	}
	ip.Console = os.Stdout

	c := core.New(ip)
	c.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		Logger.Info("shutting down core")
		c.Stop()
		os.Exit(0)
	}()

	reader.ConsoleReader(c)

	Logger.Info("shutting down core")
	c.Stop()

	if cfg.StatePath != "" {
		if err := saveState(cfg.StatePath, s); err != nil {
			Logger.Error(err.Error())
		}
	}
}

// loadOrNewState loads a machine-state snapshot from path, or returns a
// freshly booted state if path is empty. ELF loading and stack patching
// for a guest program are left to whatever populated the snapshot file;
// this driver only restores and resumes it.
func loadOrNewState(path string) (*state.State, error) {
	if path == "" {
		return state.New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return state.Load(f)
}

func saveState(path string, s *state.State) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.Save(f, strings.HasSuffix(path, ".gz"))
}

// spawnOracle launches the preimage-oracle server as a subprocess,
// wiring its stdin/stdout as the hint/preimage transport's byte streams.
// Supervision beyond start/kill/wait (restart policy, health checks) is
// an external concern the driver does not implement.
func spawnOracle(path string, args []string) (*oracle.Client, *exec.Cmd, error) {
	cmd := exec.Command(path, args...)
	hintOut, err := cmd.StdinPipe()
	if err != nil {
		return nil, nil, err
	}
	hintIn, err := cmd.StdoutPipe()
	if err != nil {
		return nil, nil, err
	}
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, nil, err
	}
	client := oracle.NewClient(hintOut, hintIn, hintOut, hintIn)
	return client, cmd, nil
}
