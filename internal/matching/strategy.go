package matching

// Strategy selects which factor set and constraint behavior the engine runs.
type Strategy int

const (
	// StrategyStrict scores the primary lead/property list. Lead-declared
	// mandatory requirements hard-disqualify a pair regardless of score.
	StrategyStrict Strategy = iota
	// StrategySoft scores chat-derived leads. No disqualification; every
	// factor blends into a continuous score, including availability timing.
	StrategySoft
)

// String returns the strategy name for logging.
func (s Strategy) String() string {
	if s == StrategySoft {
		return "soft"
	}
	return "strict"
}

// factorScore is one evaluator's output: a score in [0,1] and a short note.
type factorScore struct {
	score float64
	note  string
}

// factorFunc is a pure factor evaluator. Evaluators never fail: absent or
// malformed optional data degrades to a neutral score with a note.
type factorFunc func(vocab Vocabulary, lead Lead, prop Property) factorScore

// factorSpec binds a weight key to its evaluator. Order is result order.
type factorSpec struct {
	key  string
	eval factorFunc
}

// descriptor is a strategy's full definition: the ordered factor list, the
// default weights, and whether the constraint gate runs.
type descriptor struct {
	factors  []factorSpec
	defaults func() Weights
	gate     bool
}

func (d descriptor) weightKeys() []string {
	keys := make([]string, len(d.factors))
	for i, f := range d.factors {
		keys[i] = f.key
	}
	return keys
}

func strictDescriptor() descriptor {
	return descriptor{
		factors: []factorSpec{
			{FactorPrice, strictPrice},
			{FactorLocation, strictLocation},
			{FactorRooms, strictRooms},
			{FactorAmenities, strictAmenities},
			{FactorMoveIn, strictMoveIn},
		},
		defaults: DefaultStrictWeights,
		gate:     true,
	}
}

func softDescriptor() descriptor {
	return descriptor{
		factors: []factorSpec{
			{FactorLocation, softLocation},
			{FactorBudget, softBudget},
			{FactorRooms, softRooms},
			{FactorAmenities, softAmenities},
			{FactorAvailability, softAvailability},
		},
		defaults: DefaultSoftWeights,
		gate:     false,
	}
}

func descriptorFor(s Strategy) descriptor {
	if s == StrategySoft {
		return softDescriptor()
	}
	return strictDescriptor()
}
