package cavitysat

import "fmt"

func ExampleSolve() {
	// Problem: (¬x1 ∨ ¬x2) ∧ (¬x2 ∨ x3) ∧ (x1 ∨ ¬x3 ∨ x2) ∧ x2

	// First, encode this using integers.
	problem := [][]int{
		{-1, -2},
		{-2, 3},
		{1, -3, 2},
		{2},
	}

	// Next, call Solve to see if the problem is satisfiable and, if so,
	// check the returned assignment against the problem itself. Survey
	// propagation's draws make the exact assignment seed-dependent, so the
	// example checks soundness rather than a fixed solution.
	soln, ok := Solve(problem, Config{Seed: 1})
	if !ok {
		fmt.Println("not satisfiable")
		return
	}
	fmt.Println("satisfiable:", solutionIsValid(problem, soln))
	// Output: satisfiable: true
}
