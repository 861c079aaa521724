// Package cavitysat implements a SAT solver using survey propagation with
// decimation (SID), a message-passing heuristic derived from the cavity
// method of statistical physics. It is incomplete: it may fail to decide an
// instance it is given, falling back to WalkSAT local search rather than
// exhaustive search.
package cavitysat

// VarID identifies a Variable. IDs are 1-based; 0 is never a valid VarID.
type VarID int32

// ClauseID identifies a Clause.
type ClauseID int32

// LitID identifies a Literal edge between a Variable and a Clause.
type LitID int32

// noLit marks the absence of a literal where a LitID is otherwise expected.
const noLit LitID = -1

// Variable is a Boolean variable in the factor graph.
type Variable struct {
	ID    VarID
	Value int8 // -1, 0 (unassigned), or +1
	Lits  []LitID

	// Survey-propagation sub-products, meaningful only while Value == 0.
	// P is the product of (1-survey) over enabled negative-type incident
	// literals whose (1-survey) exceeds Eps; PZero counts the rest.
	// M/MZero are the symmetric quantities for positive-type literals.
	P, M         float64
	PZero, MZero int

	// Bias, computed from P/M/PZero/MZero by SurveyPropagation.ComputeBias.
	WP, WM, WZ float64

	// WalkSAT scratch.
	wsBreak int
}

// unassigned reports whether the variable still has no value.
func (v *Variable) unassigned() bool { return v.Value == 0 }

// Clause is a disjunction of literals.
type Clause struct {
	Lits               []LitID
	Satisfied          bool
	UnassignedLiterals int
	TrueLiterals       int
}

// Literal is a directed edge from a Clause to a Variable, carrying the
// polarity with which the variable appears in the clause and the current
// survey (warning) value on that edge.
type Literal struct {
	Var     VarID
	Clause  ClauseID
	Type    int8 // -1 or +1
	Enabled bool
	Survey  float64
}

// FixedVar records a variable fixed by propagation, decimation, or WalkSAT.
type FixedVar struct {
	ID    VarID
	Value int8
}

// Config collects the tunable constants of the solver. Zero-value fields
// are replaced by DefaultConfig's values by NewSolver.
type Config struct {
	// Alpha is the fraction of currently-unassigned variables fixed per
	// decimation step. Typical range 0.01-0.05.
	Alpha float64
	// Epsilon is survey propagation's convergence threshold on the maximum
	// per-iteration change in any survey.
	Epsilon float64
	// Eps is the numerical threshold below which (1-survey) is treated as
	// an exact zero factor, to keep the P/M sub-products finite.
	Eps float64
	// Iterations caps the number of survey-propagation sweeps.
	Iterations int
	// Paramagnet is the average-bias threshold below which decimation
	// hands off to WalkSAT.
	Paramagnet float64
	// WSNoise is WalkSAT's random-walk probability.
	WSNoise float64
	// WSMaxTries is WalkSAT's restart budget.
	WSMaxTries int
	// WSMaxSteps is WalkSAT's per-try step budget. Zero means 100 times
	// the number of variables in the graph, computed by NewSolver.
	WSMaxSteps int
	// UseSeparatingPickVar switches WalkSAT's variable-selection strategy
	// to the separating-non-caching variant (Liu, 2015) instead of the
	// default break-count strategy. See WalkSat.pickVar.
	UseSeparatingPickVar bool
	// Seed seeds the solver's single random source. Zero means seed from
	// the current time, as the teacher's test fixtures do for their own
	// random instance generator.
	Seed int64
}

// DefaultConfig returns the constants cited in the solver's design
// document: Epsilon 1e-3, Eps 1e-16, Iterations 1000, Paramagnet 0.01,
// WSNoise 0.57, WSMaxTries 100, Alpha 0.01.
func DefaultConfig() Config {
	return Config{
		Alpha:      0.01,
		Epsilon:    1e-3,
		Eps:        1e-16,
		Iterations: 1000,
		Paramagnet: 0.01,
		WSNoise:    0.57,
		WSMaxTries: 100,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Alpha == 0 {
		c.Alpha = d.Alpha
	}
	if c.Epsilon == 0 {
		c.Epsilon = d.Epsilon
	}
	if c.Eps == 0 {
		c.Eps = d.Eps
	}
	if c.Iterations == 0 {
		c.Iterations = d.Iterations
	}
	if c.Paramagnet == 0 {
		c.Paramagnet = d.Paramagnet
	}
	if c.WSNoise == 0 {
		c.WSNoise = d.WSNoise
	}
	if c.WSMaxTries == 0 {
		c.WSMaxTries = d.WSMaxTries
	}
	return c
}
