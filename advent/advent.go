package main

import (
	"cmp"
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	s, ok := solutions[os.Args[1]]
	if !ok {
		log.Fatalf("unknown solution %q", os.Args[1])
	}
	s.fn(os.Args[2:])
}

func usage() {
	names := make([]string, 0, len(solutions))
	for name := range solutions {
		names = append(names, name)
	}
	slices.SortFunc(names, compareNames)
	fmt.Fprintf(os.Stderr, "usage: %s [solution] [args...]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "where solution is one of:")
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-8s %s\n", name, solutions[name].desc)
	}
}

type solution struct {
	fn   func([]string)
	desc string
}

var solutions = make(map[string]solution)

func register(name, desc string, fn func([]string)) {
	if _, ok := solutions[name]; ok {
		panic(fmt.Sprintf("duplicate solutions registered for %q", name))
	}
	solutions[name] = solution{fn: fn, desc: desc}
}

// compareNames orders solution names by day number, then by suffix, so
// that "9" sorts before "17" and "17" before "17view".
func compareNames(name0, name1 string) int {
	n0, s0 := splitName(name0)
	n1, s1 := splitName(name1)
	if c := cmp.Compare(n0, n1); c != 0 {
		return c
	}
	return cmp.Compare(s0, s1)
}

func splitName(name string) (int, string) {
	i := 0
	for ; i < len(name); i++ {
		c := name[i]
		if c < '0' || c > '9' {
			break
		}
	}
	n, err := strconv.Atoi(name[:i])
	if err != nil {
		panic(err)
	}
	return n, name[i:]
}
