// Command cavitysat reads a DIMACS CNF problem and solves it with survey
// propagation and decimation, falling back to WalkSAT in the paramagnetic
// regime.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/kr/pretty"

	"github.com/solveit/cavitysat"
)

func main() {
	log.SetFlags(0)
	verbose := flag.Bool("v", false, "verbose mode: dump solver internals to stderr")
	alpha := flag.Float64("alpha", 0, "fraction of unassigned vars fixed per decimation step (0 = default)")
	seed := flag.Int64("seed", 0, "random seed (0 = seed from current time)")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `cavitysat: a survey-propagation SAT solver.

Usage:

  cavitysat [-v] [-alpha f] [-seed n] [input.cnf]

cavitysat reads a single problem specification in the DIMACS CNF format. It
writes the output in the conventional way: either the first line is UNSAT,
or else the first line is SAT and the second line gives the assignment in
the same format as an input clause.

If no input file is given, cavitysat reads from standard input.

This is an incomplete heuristic: it may report UNSAT-inconclusive on an
instance that is, in fact, satisfiable.
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

	clauses, err := cavitysat.ParseDIMACS(r)
	if err != nil {
		log.Fatalln("Error reading input file as DIMACS CNF:", err)
	}

	cfg := cavitysat.DefaultConfig()
	if *alpha > 0 {
		cfg.Alpha = *alpha
	}
	cfg.Seed = *seed

	fg := cavitysat.NewFactorGraph(clauses)
	solver := cavitysat.NewSolver(fg, cfg)
	ok := solver.Solve()

	if *verbose {
		fmt.Fprintf(os.Stderr, "seed: %d\n", solver.Seed())
		pretty.Fprintf(os.Stderr, "variables: %# v\n", fg.Variables)
	}

	if !ok {
		fmt.Println("UNSAT")
		return
	}
	fmt.Println("SAT")
	assignment := solver.Assignment()
	for i, v := range assignment {
		if i > 0 {
			fmt.Print(" ")
		}
		id := i + 1
		if v < 0 {
			fmt.Print(-id)
		} else {
			fmt.Print(id)
		}
	}
	fmt.Println()
}
