// Package query filters catalog records with expr-lang expressions, e.g.
//
//	kind == "tier2" && height > 10
//	distance(latitude, longitude, 47.6062, -122.3321) < 250
package query

import (
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/example/geoanchor/internal/core/item"
)

const earthRadius = 6371008.8 // mean radius, meters

// Env is the variable environment of an expression.
type Env struct {
	ID        string  `expr:"id"`
	Kind      string  `expr:"kind"`
	Tier      int     `expr:"tier"`
	Latitude  float64 `expr:"latitude"`
	Longitude float64 `expr:"longitude"`
	Height    float64 `expr:"height"`
}

// EnvFor builds the environment for a record.
func EnvFor(r item.Record) Env {
	return Env{
		ID:        r.ID,
		Kind:      r.Kind.String(),
		Tier:      r.Kind.Tier(),
		Latitude:  r.Position.Latitude,
		Longitude: r.Position.Longitude,
		Height:    r.Position.Height,
	}
}

// Filter is a compiled boolean expression over records.
type Filter struct {
	source  string
	program *vm.Program
}

// Compile type-checks expression against Env and requires a boolean result.
func Compile(expression string) (*Filter, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression must not be empty")
	}
	program, err := expr.Compile(expression,
		expr.Env(Env{}),
		expr.AsBool(),
		expr.Function("distance", distance, new(func(float64, float64, float64, float64) float64)),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", expression, err)
	}
	return &Filter{source: expression, program: program}, nil
}

// Match evaluates the filter for one record.
func (f *Filter) Match(r item.Record) (bool, error) {
	out, err := expr.Run(f.program, EnvFor(r))
	if err != nil {
		return false, fmt.Errorf("filter %q failed on %s: %w", f.source, r.ID, err)
	}
	return out.(bool), nil
}

// Apply returns the records matching f, in order.
func (f *Filter) Apply(records []item.Record) ([]item.Record, error) {
	var out []item.Record
	for _, r := range records {
		ok, err := f.Match(r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.source
}

// distance returns the great-circle distance in meters between two lat/lon pairs.
func distance(params ...any) (any, error) {
	if len(params) != 4 {
		return nil, fmt.Errorf("distance expects 4 arguments, got %d", len(params))
	}
	var v [4]float64
	for i, p := range params {
		f, err := toFloat(p)
		if err != nil {
			return nil, fmt.Errorf("distance argument %d: %w", i+1, err)
		}
		v[i] = f * math.Pi / 180
	}
	dLat := v[2] - v[0]
	dLon := v[3] - v[1]
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(v[0])*math.Cos(v[2])*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadius * math.Asin(math.Min(1, math.Sqrt(a))), nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}
