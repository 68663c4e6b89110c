package partition

// #region planner
// Plan is the outcome of an escalation run.
type Plan struct {
	Attempts []Recovery
	Resolved bool
}

// Final returns the last attempt, or a zero Recovery when none ran.
func (p Plan) Final() Recovery {
	if len(p.Attempts) == 0 {
		return Recovery{}
	}
	return p.Attempts[len(p.Attempts)-1]
}

// Planner escalates through recovery strategies. Each attempt starts from
// the original network; the first success ends the run. Manual always ends
// it as well.
type Planner struct {
	detector *Detector
	chain    []Strategy
}

// NewPlanner uses chain, or Strategies() when chain is empty.
func NewPlanner(detector *Detector, chain ...Strategy) *Planner {
	if len(chain) == 0 {
		chain = Strategies()
	}
	return &Planner{detector: detector, chain: chain}
}

// Plan tries each strategy in order, skipping repeats.
func (p *Planner) Plan(net Network) (Plan, error) {
	var plan Plan
	tried := make(map[Strategy]bool, len(p.chain))
	for _, s := range p.chain {
		if tried[s] {
			continue
		}
		tried[s] = true

		rec, err := p.detector.Recover(net, s)
		if err != nil {
			return plan, err
		}
		plan.Attempts = append(plan.Attempts, rec)
		if rec.Success {
			plan.Resolved = true
			return plan, nil
		}
		if s == StrategyManual {
			break
		}
	}
	return plan, nil
}
// #endregion planner
