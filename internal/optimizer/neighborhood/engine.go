package neighborhood

import "math/rand"

// WeightDecay blends an operator's existing weight with its latest
// reward on a successful application (spec.md §4.6 "Selection policy").
const WeightDecay = 0.2

// MinWeight floors every operator's weight so a run of failures never
// drives its roulette share to zero and locks it out permanently.
const MinWeight = 0.01

// Engine holds the fixed set of operators and their adaptive weights,
// and performs weighted-roulette selection for ALNSDriver.
type Engine struct {
	operators []Operator
	weights   []float64
}

// DefaultOperators returns one instance of each operator spec.md §4.6
// defines, in a fixed order used for weight indexing.
func DefaultOperators() []Operator {
	return []Operator{Move{}, Swap{}, Replace{}, ChangeCrop{}, Insert{}, Remove{}}
}

// NewEngine builds an Engine with equal initial weights across operators
// (spec.md §4.6: "initial weights equal").
func NewEngine(operators []Operator) *Engine {
	weights := make([]float64, len(operators))
	for i := range weights {
		weights[i] = 1.0
	}
	return &Engine{operators: operators, weights: weights}
}

// Select picks an operator via weighted roulette using rng, returning the
// operator and its index for a later UpdateWeight call.
func (e *Engine) Select(rng *rand.Rand) (Operator, int) {
	total := 0.0
	for _, w := range e.weights {
		total += w
	}
	if total <= 0 {
		idx := rng.Intn(len(e.operators))
		return e.operators[idx], idx
	}
	r := rng.Float64() * total
	cursor := 0.0
	for i, w := range e.weights {
		cursor += w
		if r <= cursor {
			return e.operators[i], i
		}
	}
	last := len(e.operators) - 1
	return e.operators[last], last
}

// UpdateWeight blends idx's weight toward reward on acceptance (spec.md
// §4.6: "adaptive weights updated by reward (Δprofit) on successes").
// Rejections leave the weight unchanged; reward is clamped to be
// non-negative so a worsening accepted move never drives a weight
// negative.
func (e *Engine) UpdateWeight(idx int, reward float64) {
	if reward < 0 {
		reward = 0
	}
	e.weights[idx] = (1-WeightDecay)*e.weights[idx] + WeightDecay*reward
	if e.weights[idx] < MinWeight {
		e.weights[idx] = MinWeight
	}
}

// Weights returns a copy of the current operator weights, keyed by
// operator name, for diagnostics.
func (e *Engine) Weights() map[string]float64 {
	out := make(map[string]float64, len(e.operators))
	for i, op := range e.operators {
		out[op.Name()] = e.weights[i]
	}
	return out
}
