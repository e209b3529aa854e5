package stats

import (
	"encoding/json"
	"math"
)

// NullFloat encodes NaN and infinities as JSON null instead of failing.
type NullFloat float64

func (f NullFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func (p Percentile) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		P     float64   `json:"p"`
		Value NullFloat `json:"value"`
	}{p.P, NullFloat(p.Value)})
}

func (d Description) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Count       int          `json:"count"`
		Mean        NullFloat    `json:"mean"`
		Std         NullFloat    `json:"std"`
		Min         NullFloat    `json:"min"`
		Max         NullFloat    `json:"max"`
		Percentiles []Percentile `json:"percentiles"`
	}{d.Count, NullFloat(d.Mean), NullFloat(d.Std), NullFloat(d.Min), NullFloat(d.Max), d.Percentiles})
}
