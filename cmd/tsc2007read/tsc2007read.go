// SPDX-FileCopyrightText: 2026 Kent Gibson <warthog618@gmail.com>
//
// SPDX-License-Identifier: MIT

//go:build linux
// +build linux

// A simple reader of TSC2007 touch samples.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/warthog618/config"
	"github.com/warthog618/config/dict"
	"github.com/warthog618/config/keys"
	"github.com/warthog618/config/pflag"
	"github.com/warthog618/tsc2007"
	"github.com/warthog618/tsc2007/i2c"
	"github.com/warthog618/tsc2007/sink"
)

var version = "undefined"

func main() {
	cfg := loadConfig()
	addr := parseAddress(cfg.MustGet("address").String())
	period, err := time.ParseDuration(cfg.MustGet("interval").String())
	if err != nil {
		die(fmt.Sprintf("can't parse interval '%s'", cfg.MustGet("interval").String()))
	}
	s, err := sink.Parse(cfg.MustGet("format").String(), os.Stdout)
	if err != nil {
		die(err.Error())
	}
	defer s.Close()
	b, err := i2c.Open(cfg.MustGet("bus").String())
	if err != nil {
		die(err.Error())
	}
	defer b.Close()
	d, err := tsc2007.New(b, tsc2007.WithAddress(addr))
	if err != nil {
		die(err.Error())
	}
	defer d.Close()
	if cfg.MustGet("temperature").Bool() {
		t, err := d.ReadTemperature()
		if err != nil {
			die("error reading temperature: " + err.Error())
		}
		fmt.Printf("temp0=%d temp1=%d\n", t.Temp0, t.Temp1)
		return
	}
	num := cfg.MustGet("num-samples").Int()
	for n := 0; ; {
		sample, _, err := d.ReadTouch()
		if err != nil {
			die("error reading touch: " + err.Error())
		}
		if err = s.Publish(sink.NewEvent(time.Now(), sample)); err != nil {
			die(err.Error())
		}
		n++
		if num > 0 && n >= num {
			return
		}
		time.Sleep(period)
	}
}

func parseAddress(arg string) uint16 {
	a, err := strconv.ParseUint(arg, 0, 7)
	if err != nil {
		die(fmt.Sprintf("can't parse address '%s'", arg))
	}
	return uint16(a)
}

func loadConfig() *config.Config {
	ff := []pflag.Flag{
		{Short: 'h', Name: "help", Options: pflag.IsBool},
		{Short: 'v', Name: "version", Options: pflag.IsBool},
		{Short: 't', Name: "temperature", Options: pflag.IsBool},
		{Short: 'b', Name: "bus"},
		{Short: 'a', Name: "address"},
		{Short: 'n', Name: "num-samples"},
		{Short: 'i', Name: "interval"},
		{Short: 'f', Name: "format"},
	}
	defaults := dict.New(dict.WithMap(
		map[string]interface{}{
			"help":        false,
			"version":     false,
			"temperature": false,
			"bus":         "",
			"address":     "0x48",
			"num-samples": 1,
			"interval":    "100ms",
			"format":      "text",
		}))
	flags := pflag.New(pflag.WithFlags(ff),
		pflag.WithKeyReplacer(keys.NullReplacer()),
	)
	cfg := config.New(flags, config.WithDefault(defaults))
	if cfg.MustGet("help").Bool() {
		printHelp()
		os.Exit(0)
	}
	if cfg.MustGet("version").Bool() {
		printVersion()
		os.Exit(0)
	}
	if flags.NArg() != 0 {
		die("unexpected arguments")
	}
	return cfg
}

func die(reason string) {
	fmt.Fprintln(os.Stderr, "tsc2007read: "+reason)
	os.Exit(1)
}

func printHelp() {
	fmt.Printf("Usage: %s [OPTIONS]\n", os.Args[0])
	fmt.Println("Read touch samples from a TSC2007.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -h, --help:\t\t\tdisplay this message and exit")
	fmt.Println("  -v, --version:\t\tdisplay the version and exit")
	fmt.Println("  -b, --bus=NAME:\t\tthe I2C bus (default first available)")
	fmt.Println("  -a, --address=ADDR:\t\tthe I2C address of the device (default 0x48)")
	fmt.Println("  -n, --num-samples=NUM:\texit after NUM samples, 0 for never (default 1)")
	fmt.Println("  -i, --interval=TIME:\t\tthe period between samples (default 100ms)")
	fmt.Println("  -f, --format=FORMAT:\t\tthe output format (default text)")
	fmt.Println("  -t, --temperature:\t\tread the temperature diodes rather than the panel")
	fmt.Println()
	fmt.Println("Formats:")
	fmt.Println("  text:\tone line of text per sample")
	fmt.Println("  json:\tone JSON object per sample")
	fmt.Println("  cbor:\tone CBOR map per sample")
}

func printVersion() {
	fmt.Printf("%s (tsc2007) %s\n", os.Args[0], version)
}
