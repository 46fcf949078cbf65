// Package catalog is the pricing catalog: a pure lookup from package and
// add-on identifiers to their price components. The upload workflow uses it
// to derive an independent price estimate that is cross-checked against the
// values the order form computes.
package catalog

import "fmt"

// Price holds the three billing components of an asset. Annual is the full
// first-year figure, Monthly the recurring monthly figure, Once any one-time
// charge.
type Price struct {
	Monthly float64
	Annual  float64
	Once    float64
}

// Add returns the component-wise sum of two prices.
func (p Price) Add(q Price) Price {
	return Price{
		Monthly: p.Monthly + q.Monthly,
		Annual:  p.Annual + q.Annual,
		Once:    p.Once + q.Once,
	}
}

// prices is the static price table, keyed by asset identifier. Base
// packages, premium packages, and add-on options share one namespace.
var prices = map[string]Price{
	"entertainment":       {Monthly: 12.50, Annual: 150.00},
	"entertainmentplus":   {Monthly: 20.00, Annual: 240.00},
	"cinema":              {Monthly: 10.00, Annual: 120.00},
	"sport":               {Monthly: 7.50, Annual: 90.00},
	"bundesliga":          {Monthly: 12.50, Annual: 150.00},
	"kids":                {Monthly: 5.00, Annual: 60.00},
	"netflixstandard":     {Monthly: 5.00, Annual: 60.00},
	"netflixpremium":      {Monthly: 10.00, Annual: 120.00},
	"trendsports":         {Monthly: 5.99, Annual: 71.88},
	"dazn_yearly":         {Monthly: 18.99, Annual: 227.88},
	"dazn_monthly":        {Monthly: 29.99, Annual: 359.88},
	"hdplus":              {Monthly: 6.00, Annual: 72.00},
	"hdplus4monategratis": {},
	"multiscreen":         {Monthly: 10.00, Annual: 120.00},
	"plus18":              {},
	"uhd":                 {Monthly: 5.00, Annual: 60.00},
}

// Lookup returns the price components of a single asset.
func Lookup(id string) (Price, error) {
	p, ok := prices[id]
	if !ok {
		return Price{}, fmt.Errorf("no price for asset %q", id)
	}
	return p, nil
}

// Sum returns the component-wise sum of the prices of all given assets.
// An unknown identifier fails the whole sum.
func Sum(ids ...string) (Price, error) {
	var total Price
	for _, id := range ids {
		p, err := Lookup(id)
		if err != nil {
			return Price{}, err
		}
		total = total.Add(p)
	}
	return total, nil
}
