package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/aoc2022/rockfall"
	"github.com/cespare/wait"
	"github.com/dustin/go-humanize"
	"github.com/felixge/fgprof"
	"github.com/kr/pretty"
	"github.com/vaughan0/go-ini"
)

func init() {
	register("17", "pyroclastic flow: tower height after 2022 and 1e12 rocks", day17)
	register("17view", "step through the rock tower interactively", day17view)
}

func day17(args []string) {
	fs := flag.NewFlagSet("17", flag.ExitOnError)
	configFile := fs.String("config", "", "INI file overriding targets and tuning")
	verbose := fs.Bool("v", false, "Log progress and cycle details to stderr")
	naive := fs.Bool("naive", false, "Cross-check part 1 with the naive simulator")
	noCycle := fs.Bool("nocycle", false, "Disable cycle detection")
	profile := fs.String("fgprof", "", "Write a wall-clock profile to this file")
	fs.Parse(args)

	vlog := log.New(io.Discard, "", 0)
	if *verbose {
		vlog.SetOutput(os.Stderr)
	}

	cfg, err := loadDay17Config(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if *noCycle {
		cfg.opts.NoCycles = true
	}

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatal(err)
	}
	jets, err := rockfall.ParseJets(string(input))
	if err != nil {
		log.Fatal(err)
	}
	vlog.Printf("jet count: %d", jets.Len())

	var heights []int64
	err = withProfile(*profile, func() error {
		var err error
		heights, err = solveDay17(jets, cfg, *naive, vlog)
		return err
	})
	if err != nil {
		log.Fatal(err)
	}
	for _, h := range heights {
		fmt.Println(h)
	}
	if cpu, err := cpuTime(); err == nil {
		vlog.Printf("cpu time: %s", cpu.Round(time.Millisecond))
	}
}

// withProfile runs fn, recording a wall-clock profile to path unless path
// is empty. The profile is flushed and closed even if fn fails.
func withProfile(path string, fn func() error) (err error) {
	if path == "" {
		return fn()
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	stop := fgprof.Start(f, fgprof.FormatPprof)
	defer func() {
		if stopErr := stop(); stopErr != nil && err == nil {
			err = fmt.Errorf("error writing profile: %s", stopErr)
		}
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return fn()
}

// solveDay17 computes both heights and, if naive is set, checks part 1
// against the naive simulator.
func solveDay17(jets *rockfall.JetSchedule, cfg day17Config, naive bool, vlog *log.Logger) ([]int64, error) {
	heights, err := runDay17(jets, cfg, vlog)
	if err != nil {
		return nil, err
	}
	if !naive {
		return heights, nil
	}
	start := time.Now()
	tower := rockfall.SimulateNaive(jets, cfg.part1)
	vlog.Printf("naive: %d rocks in %s, bounds %v",
		cfg.part1, time.Since(start).Round(time.Millisecond), tower.Bounds())
	if tower.Height() != heights[0] {
		return nil, fmt.Errorf("naive simulation disagrees: got height %d; want %d", tower.Height(), heights[0])
	}
	return heights, nil
}

// runDay17 runs one independent simulation per target, concurrently.
func runDay17(jets *rockfall.JetSchedule, cfg day17Config, vlog *log.Logger) ([]int64, error) {
	targets := []int64{cfg.part1, cfg.part2}
	heights := make([]int64, len(targets))
	var wg wait.Group
	for i, target := range targets {
		wg.Go(func(<-chan struct{}) error {
			sim, err := rockfall.New(jets, cfg.opts)
			if err != nil {
				return err
			}
			start := time.Now()
			heights[i] = sim.Run(target)
			vlog.Printf("part %d: %s rocks, height %s, %s (chamber %s, base row %s)",
				i+1,
				humanize.Comma(target),
				humanize.Comma(heights[i]),
				time.Since(start).Round(time.Microsecond),
				humanize.Bytes(sim.Chamber().SizeBytes()),
				humanize.Comma(sim.Chamber().Base()))
			vlog.Printf("part %d cycle: %s", i+1, pretty.Sprint(sim.CycleStatus()))
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		return nil, err
	}
	return heights, nil
}

type day17Config struct {
	part1 int64
	part2 int64
	opts  rockfall.Options
}

func defaultDay17Config() day17Config {
	return day17Config{
		part1: 2022,
		part2: 1_000_000_000_000,
		opts:  rockfall.DefaultOptions(),
	}
}

// loadDay17Config reads overrides from an INI file like
//
//	[run]
//	part1 = 2022
//	part2 = 1000000000000
//	[chamber]
//	capacity = 1024
//	[cycle]
//	skyline_rows = 100
//	min_height = 100
//	confirmations = 2
//
// Missing keys keep their defaults. An empty path means no file.
func loadDay17Config(path string) (day17Config, error) {
	cfg := defaultDay17Config()
	if path == "" {
		return cfg, nil
	}
	f, err := ini.LoadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("error loading config (%s): %s", path, err)
	}
	capacity := int64(cfg.opts.Capacity)
	skylineRows := int64(cfg.opts.SkylineRows)
	confirmations := int64(cfg.opts.Confirmations)
	for _, v := range []struct {
		section, key string
		dst          *int64
	}{
		{"run", "part1", &cfg.part1},
		{"run", "part2", &cfg.part2},
		{"chamber", "capacity", &capacity},
		{"cycle", "skyline_rows", &skylineRows},
		{"cycle", "min_height", &cfg.opts.MinHeight},
		{"cycle", "confirmations", &confirmations},
	} {
		s, ok := f.Get(v.section, v.key)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("config %s: bad %s.%s: %s", path, v.section, v.key, err)
		}
		if n < 0 {
			return cfg, fmt.Errorf("config %s: %s.%s must not be negative", path, v.section, v.key)
		}
		*v.dst = n
	}
	cfg.opts.Capacity = int(capacity)
	cfg.opts.SkylineRows = int(skylineRows)
	cfg.opts.Confirmations = int(confirmations)
	return cfg, nil
}
