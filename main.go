/*
 * HP2100 - Simulator main program
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
	"io"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"
	reader "github.com/rcornwell/HP2100/command/reader"
	config "github.com/rcornwell/HP2100/config/configparser"
	"github.com/rcornwell/HP2100/config/sysconfig"
	core "github.com/rcornwell/HP2100/emu/core"
	master "github.com/rcornwell/HP2100/emu/master"
	timer "github.com/rcornwell/HP2100/emu/timer"
	logger "github.com/rcornwell/HP2100/util/logger"

	_ "github.com/rcornwell/HP2100/config/debugconfig"
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Log debug to console")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logOut io.Writer
	if *optLogFile != "" {
		file, err := os.Create(*optLogFile)
		if err != nil {
			slog.Error("Unable to create log file: " + err.Error())
			os.Exit(1)
		}
		defer file.Close()
		logOut = file
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	Logger := slog.New(logger.NewHandler(logOut, &slog.HandlerOptions{Level: programLevel}, optDebug))
	slog.SetDefault(Logger)

	Logger.Info("HP2100 Started")

	// Without a configuration file the default machine is built.
	if *optConfig != "" {
		err := config.LoadConfigFile(*optConfig)
		if err != nil {
			Logger.Error(err.Error())
			os.Exit(1)
		}
	}

	cpu, clock, err := sysconfig.Build()
	if err != nil {
		Logger.Error(err.Error())
		os.Exit(1)
	}
	cfg := cpu.Config()
	Logger.Info("Machine " + cfg.Model.String() + " " + cfg.Options.String())

	masterChannel := make(chan master.Packet)
	sim := core.New(masterChannel, cpu)

	// Start host clock for time base generator.
	var ticker *timer.Timer
	if clock != nil {
		sim.AttachClock(clock)
		ticker = timer.NewTimer(masterChannel, timer.DefaultPeriod)
		ticker.Start()
	}

	go sim.Start()

	reader.ConsoleReader(sim)

	if ticker != nil {
		ticker.Shutdown()
	}
	sim.Stop()
	Logger.Info("Simulator stopped.")
}
