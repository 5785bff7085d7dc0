package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/aoc2022/rockfall"
	"github.com/chzyer/readline"
	"github.com/dustin/go-humanize"
)

// day17view drops rocks a few at a time on request and draws the top of the
// tower after each batch. The jet pattern comes from a file because stdin
// is the terminal.
func day17view(args []string) {
	fs := flag.NewFlagSet("17view", flag.ExitOnError)
	configFile := fs.String("config", "", "INI file overriding tuning")
	rows := fs.Int("rows", 20, "Number of rows to draw")
	fs.Parse(args)
	if fs.NArg() != 1 {
		log.Fatal("usage: 17view [flags] inputfile")
	}

	cfg, err := loadDay17Config(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	input, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	jets, err := rockfall.ParseJets(string(input))
	if err != nil {
		log.Fatal(err)
	}
	sim, err := rockfall.New(jets, cfg.opts)
	if err != nil {
		log.Fatal(err)
	}

	l, err := readline.NewEx(&readline.Config{
		Prompt:      "> ",
		HistoryFile: filepath.Join(os.TempDir(), "advent17view.txt"),
	})
	if err != nil {
		log.Fatal(err)
	}
	defer l.Close()

	out := l.Stdout()
	fmt.Fprintln(out, "enter a number of rocks to drop (default 1), or q to quit")
	for {
		line, err := l.Readline()
		switch err {
		case nil:
		case readline.ErrInterrupt:
			continue
		case io.EOF:
			return
		default:
			log.Println("Readline error:", err)
			continue
		}
		n, quit, err := parseViewCommand(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if quit {
			return
		}
		if err := dropRocks(sim, n); err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if err := sim.Render(out, *rows); err != nil {
			log.Fatal(err)
		}
		st := sim.CycleStatus()
		fmt.Fprintf(out, "rocks: %s  height: %s  cycle: %s",
			humanize.Comma(sim.Steps()), humanize.Comma(sim.Height()), st.State)
		if st.State != rockfall.Searching {
			fmt.Fprintf(out, " (every %d rocks, +%d rows)", st.Length, st.Delta)
		}
		fmt.Fprintln(out)
	}
}

// dropRocks settles n more rocks. It goes through Run so that a large n
// is answered by skipping whole cycles once one is confirmed.
func dropRocks(sim *rockfall.Simulation, n int64) error {
	if n > math.MaxInt64-sim.Steps() {
		return fmt.Errorf("cannot drop %s more rocks after %s", humanize.Comma(n), humanize.Comma(sim.Steps()))
	}
	sim.Run(sim.Steps() + n)
	return nil
}

// parseViewCommand interprets one line typed at the 17view prompt.
func parseViewCommand(line string) (n int64, quit bool, err error) {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return 1, false, nil
	case "q", "quit":
		return 0, true, nil
	}
	n, err = strconv.ParseInt(line, 10, 64)
	if err != nil || n <= 0 {
		return 0, false, fmt.Errorf("not a positive number of rocks: %q", line)
	}
	return n, false, nil
}
