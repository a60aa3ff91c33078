package matching

import "math"

// Engine scores lead/property pairs under one strategy. It holds only
// configuration: scoring is a pure function of its inputs, so a single
// Engine is safe for concurrent use.
type Engine struct {
	strategy Strategy
	desc     descriptor
	weights  Weights
	vocab    Vocabulary
}

// Option configures an Engine.
type Option func(*Engine)

// WithVocabulary replaces the default free-text feature vocabulary.
func WithVocabulary(vocab Vocabulary) Option {
	return func(e *Engine) {
		if len(vocab) > 0 {
			e.vocab = vocab
		}
	}
}

// NewEngine creates an engine for the given strategy. Overrides are merged
// over the strategy's default weights key-wise; a negative weight or a key
// the strategy does not recognize is a validation error.
func NewEngine(strategy Strategy, overrides Weights, opts ...Option) (*Engine, error) {
	desc := descriptorFor(strategy)

	weights := desc.defaults().merge(overrides)
	if err := weights.validate(desc.weightKeys()); err != nil {
		return nil, err
	}

	engine := &Engine{
		strategy: strategy,
		desc:     desc,
		weights:  weights,
		vocab:    DefaultVocabulary(),
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine, nil
}

// Strategy returns the engine's strategy.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Weights returns a copy of the effective weight vector.
func (e *Engine) Weights() Weights {
	out := make(Weights, len(e.weights))
	for key, value := range e.weights {
		out[key] = value
	}
	return out
}

// Score computes the MatchResult for one lead/property pair. The constraint
// gate (strict only) runs first but never skips the factor evaluators, so
// the breakdown is complete even for disqualified pairs.
func (e *Engine) Score(lead Lead, prop Property) MatchResult {
	result := MatchResult{
		LeadID:               lead.ID,
		PropertyID:           prop.ID,
		DisqualifyingReasons: []string{},
		Breakdown:            make([]FactorBreakdown, 0, len(e.desc.factors)),
		Reasons:              []Reason{},
	}

	if e.desc.gate {
		disqualified, unmet, checks := evaluateConstraints(lead, prop)
		result.IsDisqualified = disqualified
		result.Reasons = append(result.Reasons, checks...)
		for _, key := range unmet {
			result.DisqualifyingReasons = append(result.DisqualifyingReasons, "חסר דרישת חובה: "+key)
		}
	}

	var weightedSum, totalWeight float64
	for _, factor := range e.desc.factors {
		fs := factor.eval(e.vocab, lead, prop)
		weight := e.weights[factor.key]

		weightedSum += weight * fs.score
		totalWeight += weight

		result.Reasons = append(result.Reasons, Reason{
			Factor: factor.key,
			Impact: weight * fs.score,
			Note:   fs.note,
		})
		result.Breakdown = append(result.Breakdown, FactorBreakdown{
			Factor: factor.key,
			Score:  int(math.Round(fs.score * 100)),
			Weight: weight,
			Note:   fs.note,
		})
	}

	if totalWeight > 0 {
		result.Percentage = int(math.Round(100 * weightedSum / totalWeight))
	}

	result.Score = result.Percentage
	if result.IsDisqualified {
		result.Score = 0
	}
	return result
}

// ComputeMatchScore scores a single pair under the strict strategy with the
// supplied weights. This is the entry point the bulk list endpoint calls
// once per cross-product cell.
func ComputeMatchScore(lead Lead, prop Property, weights Weights) (MatchResult, error) {
	engine, err := NewEngine(StrategyStrict, weights)
	if err != nil {
		return MatchResult{}, err
	}
	return engine.Score(lead, prop), nil
}
