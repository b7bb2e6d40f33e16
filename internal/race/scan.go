package race

import (
	"time"

	"github.com/ericbudish/racewatch"
	"github.com/ericbudish/racewatch/internal/ticktable"
)

// resolvedOutcome finalizes a RacePriceDependent take attempt's outcome
// against candidate race price p (spec.md §4.3.4 step 4). Success requires
// an execution at or better than p on raceSide's signed axis; otherwise the
// attempt Fails, except under strict_fail, where only an IOC/FOK attempt
// counts as a Fail and anything else is Unknown.
func resolvedOutcome(t Tag, p racewatch.Price, cfg racewatch.RaceParams) Outcome {
	if t.Outcome != RacePriceDependent {
		return t.Outcome
	}
	if t.BestExecSigned.IsSet() && t.BestExecSigned <= p {
		return Success
	}
	if cfg.StrictFail && !t.IsIOC {
		return Unknown
	}
	return Fail
}

// ScanSide implements spec.md §4.3.4's single-level race scan for one race
// side. tags must already be filtered to that side and kept in message-index
// (i.e. chronological) order, as Tags produces them.
func ScanSide(tags []Tag, raceSide racewatch.Side, processingTime []time.Duration, known []bool, bbo *bboLookup, tt *ticktable.Table, cfg racewatch.RaceParams) ([]Record, error) {
	var records []Record
	prevStart := make(map[racewatch.Price]time.Time)
	prevHorizon := make(map[racewatch.Price]time.Duration)

	for idx, t := range tags {
		candidates, err := candidatePrices(t, raceSide, bbo, tt)
		if err != nil {
			return nil, err
		}

		for _, p := range candidates {
			if start, ok := prevStart[p]; ok && !start.Add(prevHorizon[p]).Before(t.Timestamp) {
				continue // overlaps the previous race at this price (§4.3.4 step 1)
			}

			horizon := Horizon(cfg, processingTime[t.MsgIdx], known[t.MsgIdx])
			deadline := t.Timestamp.Add(horizon)

			seq := gatherSeq(tags[idx:], p, deadline)
			if !satisfiesCriteria(seq, p, cfg) {
				continue
			}

			records = append(records, Record{
				StartMsgIdx: t.MsgIdx,
				Timestamp:   t.Timestamp,
				Side:        raceSide,
				SignedPrice: p,
				Horizon:     horizon,
				MsgIdxs:     tagMsgIdxs(seq),
			})
			prevStart[p], prevHorizon[p] = t.Timestamp, horizon
		}
	}
	return records, nil
}

// candidatePrices implements spec.md §4.3.4 steps 2-3: a cancel attempt's
// only candidate is its own price; a take attempt's candidates are every
// tick from the current best-opposite-side price to the attempt's own
// price, inclusive, provided the attempt actually crosses.
func candidatePrices(t Tag, raceSide racewatch.Side, bbo *bboLookup, tt *ticktable.Table) ([]racewatch.Price, error) {
	if t.Kind == Cancel {
		return []racewatch.Price{t.PriceSigned}, nil
	}

	oppRaw := bbo.best(t.MsgIdx, raceSide)
	if !oppRaw.IsSet() {
		return nil, nil
	}
	oppSigned := raceSide.SignedPrice(oppRaw)
	if t.PriceSigned < oppSigned {
		return nil, nil // doesn't cross the current best price on raceSide
	}

	lo, hi := t.PriceRaw, oppRaw
	if lo > hi {
		lo, hi = hi, lo
	}
	ticks, err := tt.Ticks(lo, hi)
	if err != nil {
		return nil, err
	}
	out := make([]racewatch.Price, len(ticks))
	for i, raw := range ticks {
		out[i] = raceSide.SignedPrice(raw)
	}
	return out, nil
}

// gatherSeq collects every tag at or after i (tags is already sliced to
// start there) within [i.Timestamp, deadline] that is a cancel attempt at
// exactly p, or a take attempt whose signed price reaches at least p.
func gatherSeq(tags []Tag, p racewatch.Price, deadline time.Time) []Tag {
	var seq []Tag
	for _, u := range tags {
		if u.Timestamp.After(deadline) {
			break
		}
		switch u.Kind {
		case Cancel:
			if u.PriceSigned == p {
				seq = append(seq, u)
			}
		case Take:
			if u.PriceSigned >= p {
				seq = append(seq, u)
			}
		}
	}
	return seq
}

// satisfiesCriteria implements spec.md §4.3.4 step 5's baseline race
// criteria: enough distinct participants, enough takes and cancels, and at
// least one success and one fail (at candidate price p), with strict_success
// additionally requiring a fail that itself reached p exactly.
func satisfiesCriteria(seq []Tag, p racewatch.Price, cfg racewatch.RaceParams) bool {
	if len(seq) == 0 {
		return false
	}
	users := make(map[string]bool)
	takes, cancels, successes, fails := 0, 0, 0, 0
	sawFailAtP := false
	for _, t := range seq {
		users[t.UserID] = true
		switch t.Kind {
		case Take:
			takes++
		case Cancel:
			cancels++
		}
		switch resolvedOutcome(t, p, cfg) {
		case Success:
			successes++
		case Fail:
			fails++
			if t.Kind == Take && t.PriceSigned == p {
				sawFailAtP = true
			}
		}
	}
	if len(users) < cfg.MinNumParticipants {
		return false
	}
	if takes < cfg.MinNumTakes || cancels < cfg.MinNumCancels {
		return false
	}
	if successes == 0 || fails == 0 {
		return false
	}
	if cfg.StrictSuccess && !sawFailAtP {
		return false
	}
	return true
}

func tagMsgIdxs(seq []Tag) []int {
	out := make([]int, len(seq))
	for i, t := range seq {
		out[i] = t.MsgIdx
	}
	return out
}
