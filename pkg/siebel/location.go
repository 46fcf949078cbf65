package siebel

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// Location is the target address triple of one resolution run.
type Location struct {
	City       string
	Street     string
	PostalCode string
}

// Candidate is one row of a candidate table, ranked by the similarity of its
// displayed text to the target postal code.
type Candidate struct {
	Text     string
	Selector string
	Score    float64
}

const (
	cityTableSelector   = `table[summary="Wähle Platz"] tbody`
	streetTableSelector = `table[summary="Wähle Straße"] tbody`

	// postalCodeColumn is the column carrying the postal code in both
	// candidate tables.
	postalCodeColumn = 3

	// candidateTimeout bounds the wait for a candidate table. The table
	// legitimately never appears when the lookup had an exact match, so
	// the timeout doubles as the "no ambiguity" signal.
	candidateTimeout = 3 * time.Second
)

// ResolveLocation reconciles the target (city, street, postal code) triple
// against the form's progressively narrowing candidate lists, scoped to a
// sub-region of the page when scope is non-empty.
//
// The city lookup returns fuzzy geographic matches while the street lookup,
// once a specific place is chosen, returns an exactly keyed table. The loop
// walks city candidates best-match-first until one yields a street table
// containing the target postal code, bounded by the candidate list length.
func (d *Driver) ResolveLocation(scope string, loc Location) error {
	var candidates []Candidate
	probed := false
	cursor := 0

	for {
		current, err := d.ReadFieldIn(scope, "Postleitzahl")
		if err != nil {
			return err
		}
		if current == loc.PostalCode {
			d.log.Infof("location resolved: %s %s", loc.PostalCode, loc.City)
			return nil
		}

		if err := d.WriteFieldIn(scope, "Ort", loc.City); err != nil {
			return err
		}

		if !probed {
			probed = true
			table, err := d.ExtractTable(scoped(scope, cityTableSelector), candidateTimeout)
			if errors.Is(err, ErrTableTimeout) {
				// No candidate list: the city lookup accepted a
				// single match directly.
				d.log.Infof("no city candidate table for %q, taking direct path", loc.City)
				return d.resolveDirect(scope, loc)
			}
			if err != nil {
				return err
			}
			candidates = rankCandidates(table.Column(postalCodeColumn), loc.PostalCode)
			d.log.Infof("ranked %d city candidates for %s", len(candidates), loc.PostalCode)
		}

		if cursor >= len(candidates) {
			return fmt.Errorf("%w: exhausted %d city candidates for %s %s (check city, street and postal code)",
				ErrLocationUnresolved, len(candidates), loc.PostalCode, loc.City)
		}

		candidate := candidates[cursor]
		d.log.Debugf("trying city candidate %d: %q (score %.3f)", cursor, candidate.Text, candidate.Score)
		if err := d.page.Click(candidate.Selector, 0); err != nil {
			return err
		}
		if err := d.ClosePicker(); err != nil {
			return err
		}

		if err := d.WriteFieldIn(scope, "Straße", loc.Street); err != nil {
			return err
		}

		table, err := d.ExtractTable(scoped(scope, streetTableSelector), candidateTimeout)
		switch {
		case err == nil:
			if cell, ok := table.Index(postalCodeColumn)[loc.PostalCode]; ok {
				if err := d.page.Click(cell.Selector, 0); err != nil {
					return err
				}
				if err := d.ClosePicker(); err != nil {
					return err
				}
			} else {
				d.log.Warnf("street table of candidate %q lacks postal code %s", candidate.Text, loc.PostalCode)
			}
		case errors.Is(err, ErrTableTimeout):
			// Street accepted without ambiguity; the read-back below
			// decides whether this candidate resolved the address.
		default:
			return err
		}

		cursor++
	}
}

// resolveDirect handles the path where the city lookup had no candidate
// list: write the street, select the exact postal code from a street table
// if one appears, otherwise fall back to writing the postal code directly.
func (d *Driver) resolveDirect(scope string, loc Location) error {
	if err := d.WriteFieldIn(scope, "Straße", loc.Street); err != nil {
		return err
	}

	table, err := d.ExtractTable(scoped(scope, streetTableSelector), candidateTimeout)
	if err == nil {
		cell, ok := table.Index(postalCodeColumn)[loc.PostalCode]
		if !ok {
			return fmt.Errorf("%w: %s", ErrPostalCodeNotFound, loc.PostalCode)
		}
		if err := d.page.Click(cell.Selector, 0); err != nil {
			return err
		}
		return d.ClosePicker()
	}
	if !errors.Is(err, ErrTableTimeout) {
		return err
	}

	current, err := d.ReadFieldIn(scope, "Postleitzahl")
	if err != nil {
		return err
	}
	if current != loc.PostalCode {
		return d.WriteFieldIn(scope, "Postleitzahl", loc.PostalCode)
	}
	return nil
}

// rankCandidates filters out blank rows and orders the rest by descending
// Sørensen–Dice similarity to the target postal code. The sort is stable, so
// ties keep the table's original order.
func rankCandidates(cells []Cell, target string) []Candidate {
	dice := metrics.NewSorensenDice()
	candidates := make([]Candidate, 0, len(cells))
	for _, cell := range cells {
		text := strings.TrimSpace(cell.Text)
		if text == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			Text:     text,
			Selector: cell.Selector,
			Score:    strutil.Similarity(text, target, dice),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// scoped prefixes a selector with a sub-region selector when one is set.
func scoped(scope, selector string) string {
	if scope == "" {
		return selector
	}
	return scope + " " + selector
}
