// Command ay38910play drives an AY-3-8910/YM2149 core from a register
// script and plays the result through the host's default audio output.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli"

	"github.com/zotley-labs/ay38910"
	"github.com/zotley-labs/ay38910/audio"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "ay38910play"})

func main() {
	app := cli.NewApp()
	app.Name = "ay38910play"
	app.Usage = "ay38910play [options] <script file>"
	app.Description = "Plays an AY-3-8910/YM2149 register script through the default audio device"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "script",
			Usage: "Path to a register script (one \"addr value\" pair per line)",
		},
		cli.IntFlag{
			Name:  "sample-rate",
			Usage: "Output sample rate in Hz",
			Value: 44100,
		},
		cli.Float64Flag{
			Name:  "clock",
			Usage: "Emulated master clock frequency in Hz",
			Value: 2_000_000,
		},
		cli.StringFlag{
			Name:  "chip",
			Usage: "Chip type: AY-3-8910 or YM2149",
			Value: "YM2149",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
		cli.Float64Flag{
			Name:  "duration",
			Usage: "Seconds to play after the script finishes (holds the final register state)",
			Value: 2.0,
		},
		cli.IntFlag{
			Name:  "channels",
			Usage: "Output channels: 1 (mono) or 2 (stereo pan)",
			Value: 1,
		},
		cli.BoolFlag{
			Name:  "hq-audio",
			Usage: "Route playback through the high-quality oversampling/FIR/DC-blocking pipeline",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		logger.Error("ay38910play failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	scriptPath := c.String("script")
	if scriptPath == "" {
		if c.NArg() > 0 {
			scriptPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return fmt.Errorf("no script path provided")
		}
	}

	cfg, err := ay38910.NewConfig(ay38910.Config{
		DeviceID:       "ay38910play",
		ClockFrequency: c.Float64("clock"),
		SampleRate:     c.Int("sample-rate"),
		Channels:       c.Int("channels"),
		BufferSeconds:  0.1,
		VolumeScale:    1.0,
		ChipType:       ay38910.ChipType(c.String("chip")),
		EnableEnvelope: true,
		EnableNoise:    true,
		EnableDebug:    c.Bool("debug"),
		EnableHQAudio:  c.Bool("hq-audio"),
	})
	if err != nil {
		return err
	}

	core, err := ay38910.NewCore(cfg)
	if err != nil {
		return err
	}

	script, err := loadScript(scriptPath)
	if err != nil {
		return err
	}
	for _, w := range script {
		if err := core.Write(w.addr, w.value); err != nil {
			return fmt.Errorf("script write addr=%d value=%d: %w", w.addr, w.value, err)
		}
	}

	sink := audio.NewOtoSink()
	driver, err := audio.NewDriver(core, sink, cfg.SampleRate, 0.5, cfg.BufferSeconds)
	if err != nil {
		return err
	}
	driver.SetErrorCallback(func(err error) {
		logger.Warn("audio runtime error", "error", err)
	})
	driver.SetStatusCallback(func(status string) {
		logger.Info("audio driver status", "status", status)
	})

	if err := driver.Start(); err != nil {
		return err
	}
	defer driver.Stop()

	logger.Info("playing", "script", scriptPath, "duration_s", c.Float64("duration"))
	time.Sleep(time.Duration(c.Float64("duration") * float64(time.Second)))
	return nil
}

type regWrite struct {
	addr  uint8
	value uint8
}

// loadScript parses a text file of "addr value" pairs, one per line,
// ignoring blank lines and lines starting with '#'.
func loadScript(path string) ([]regWrite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var writes []regWrite
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%s:%d: expected \"addr value\", got %q", path, lineNo, line)
		}
		addr, err := strconv.ParseUint(fields[0], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid register address: %w", path, lineNo, err)
		}
		value, err := strconv.ParseUint(fields[1], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: invalid register value: %w", path, lineNo, err)
		}
		writes = append(writes, regWrite{addr: uint8(addr), value: uint8(value)})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return writes, nil
}
