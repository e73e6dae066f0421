// Command satenc-dimacs reads a DIMACS CNF file and reports satisfiability.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	satenc "github.com/go-satenc/satenc"
	"github.com/go-satenc/satenc/nativesat"
)

func main() {
	log.SetFlags(0)
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `satenc-dimacs: solve a DIMACS CNF formula.

Usage:

  satenc-dimacs [-v] [input.cnf]

satenc-dimacs reads a single problem specification in the DIMACS CNF format.
It writes the output in the conventional way: either the first line is UNSAT,
or else the first line is SAT and the second line gives the assignments in the
same format as an input clause.

If no input file is given, satenc-dimacs reads from standard input.

The -v flag controls verbose output.
`)
	}
	flag.Parse()

	var r io.Reader = os.Stdin
	if flag.NArg() >= 1 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		r = f
	}

	clauses, err := satenc.ParseDIMACS(r)
	if err != nil {
		log.Fatalln("Error reading input file as DIMACS CNF:", err)
	}

	backend := nativesat.New()
	for _, c := range clauses {
		backend.AddClause(c...)
	}
	result := backend.Solve()

	if *verbose {
		stats := backend.Stats()
		var keys []string
		var maxKeyLen int
		for key := range stats {
			keys = append(keys, key)
			if len(key) > maxKeyLen {
				maxKeyLen = len(key)
			}
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(os.Stderr, "%*s %v\n", maxKeyLen, key, stats[key])
		}
	}

	if result != satenc.Sat {
		fmt.Println("UNSAT")
		return
	}
	fmt.Println("SAT")

	seen := make(map[int32]struct{})
	var vars []int32
	for _, c := range clauses {
		for _, lit := range c {
			v := lit
			if v < 0 {
				v = -v
			}
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				vars = append(vars, v)
			}
		}
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })

	for i, v := range vars {
		if i > 0 {
			fmt.Print(" ")
		}
		if backend.Value(v) {
			fmt.Print(v)
		} else {
			fmt.Print(-v)
		}
	}
	fmt.Println()
}
