package cavitysat

import "math/rand"

// solutionIsValid reports whether soln (a list of signed variable indices,
// one per variable, sign indicating the assigned value) satisfies every
// clause in problem. Mirrors the teacher's own fixture-checking helper.
func solutionIsValid(problem [][]int, soln []int) bool {
	vars := make(map[int]bool)
	for _, v := range soln {
		if v < 0 {
			vars[-v] = false
		} else {
			vars[v] = true
		}
	}
clauseLoop:
	for _, clause := range problem {
		for _, v := range clause {
			if v < 0 {
				if !vars[-v] {
					continue clauseLoop
				}
			} else if vars[v] {
				continue clauseLoop
			}
		}
		return false
	}
	return true
}

// makeRandomKSAT generates a random k-SAT instance with the given number
// of variables and clauses, each clause exactly k distinct variables with
// independently random signs. Mirrors the teacher's makeRandomSat, adapted
// to fixed clause width since that's what survey propagation is tuned for.
func makeRandomKSAT(seed int64, numVars, numClauses, k int) [][]int {
	rng := rand.New(rand.NewSource(seed))
	problem := make([][]int, numClauses)
	for i := range problem {
		vars := rng.Perm(numVars)[:k]
		cls := make([]int, k)
		for j, v := range vars {
			lit := v + 1
			if rng.Intn(2) == 1 {
				lit = -lit
			}
			cls[j] = lit
		}
		problem[i] = cls
	}
	return problem
}
