package engine

import (
	"math/rand/v2"

	"github.com/roach88/stochrammar/internal/grammar"
)

// Sequence is the flat, double-buffered fixpoint engine.
//
// Only terminal tokens act; an action attached to a non-terminal token is
// discarded along with the token when it is rewritten.
//
// Thread-safety: a Sequence is immutable after construction and may run
// concurrently, one *rand.Rand per concurrent run.
type Sequence[T any] struct {
	grammar grammar.Grammar[T]
	opts    options
}

// NewSequence creates a sequence engine for g.
func NewSequence[T any](g grammar.Grammar[T], opts ...Option) *Sequence[T] {
	return &Sequence[T]{grammar: g, opts: newOptions(opts)}
}

// Kind returns KindSequence.
func (s *Sequence[T]) Kind() Kind {
	return KindSequence
}

// Run rewrites the grammar's root token to an all-terminal sequence and
// applies the terminals' actions left to right to a blank entity.
func (s *Sequence[T]) Run(r *rand.Rand) (T, error) {
	entity, _, err := s.RunWithStats(r)
	return entity, err
}

// RunWithStats is Run plus expansion statistics.
func (s *Sequence[T]) RunWithStats(r *rand.Rand) (T, Stats, error) {
	info := RunInfo{RunID: s.opts.runIDs.Generate(), Engine: KindSequence}
	s.opts.observer.RunStarted(info)

	entity, stats, err := s.run(resolveRand(r), info)

	s.opts.observer.RunFinished(info, stats, err)
	logRun(s.opts.logger, info, stats, err)
	if err != nil {
		var zero T
		return zero, stats, err
	}
	return entity, stats, nil
}

func (s *Sequence[T]) run(r *rand.Rand, info RunInfo) (T, Stats, error) {
	var (
		zero  T
		stats Stats
	)

	root := s.grammar.RootToken()
	if root == nil {
		return zero, stats, NewInvalidGrammarError(info.RunID, 0, "grammar returned nil root token")
	}

	budget := newQuota(s.opts.maxReplacements)
	current := newGeneration[T](s.opts.bufferSize)
	next := newGeneration[T](s.opts.bufferSize)
	current.push(slot[T]{token: root})

	for {
		changed := false
		for _, sl := range current.items() {
			if sl.ground {
				next.push(sl)
				continue
			}

			if err := budget.check(info.RunID, stats.Generations); err != nil {
				return zero, stats, err
			}
			successors, err := sl.token.Replace(r)
			stats.Replacements++
			if err != nil {
				return zero, stats, NewReplaceError(info.RunID, stats.Generations, err)
			}
			if grammar.Terminal(successors) {
				sl.ground = true
				stats.Terminals++
				next.push(sl)
				continue
			}
			for _, t := range successors {
				if t == nil {
					return zero, stats, NewInvalidGrammarError(info.RunID, stats.Generations, "replace returned nil successor")
				}
			}

			next.pushTokens(successors, sl.depth+1)
			if sl.depth+1 > stats.MaxDepth {
				stats.MaxDepth = sl.depth + 1
			}
			changed = true
		}

		stats.Generations++
		if next.len() > stats.PeakWidth {
			stats.PeakWidth = next.len()
		}

		current, next = next, current
		next.reset()

		s.opts.logger.Debug("generation rewritten",
			"run_id", info.RunID,
			"generation", stats.Generations,
			"width", current.len(),
			"capacity", current.capacity(),
		)

		if !changed {
			break
		}
	}
	stats.BufferGrowths = current.growths + next.growths

	clock := NewClock()
	entity := s.grammar.BlankEntity()
	for _, sl := range current.items() {
		entity = sl.token.Act(entity)
		s.opts.observer.TokenActed(ActEvent{
			RunID:    info.RunID,
			Seq:      clock.Next(),
			Depth:    sl.depth,
			Terminal: true,
		})
	}
	stats.Acts = int(clock.Current())

	return entity, stats, nil
}
