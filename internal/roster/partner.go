package roster

import (
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strings"
	"time"
)

// DefaultPartnerName is used when a partner record carries no usable name.
const DefaultPartnerName = "Partner"

// ErrInvalidPartner is returned when stored partner data cannot be read.
var ErrInvalidPartner = errors.New("invalid partner data")

// Partner is the reduced roster of a second player: only lucky dex numbers.
type Partner struct {
	Name      string    `json:"name"`
	Dex       []int     `json:"dex"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Set returns the partner's lucky dex numbers as a set.
func (p Partner) Set() DexSet {
	return NewDexSet(p.Dex...)
}

// NewPartner builds partner data from a lucky set.
func NewPartner(dex DexSet, name string, now time.Time) Partner {
	values := make([]float64, 0, len(dex))
	for d := range dex {
		values = append(values, float64(d))
	}
	normalized, _ := NormalizePartnerDex(values)
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultPartnerName
	}
	return Partner{Name: name, Dex: normalized, UpdatedAt: now}
}

// NormalizePartnerDex truncates, clamps to 1..MaxDex, dedups and sorts.
// It fails on non-finite values.
func NormalizePartnerDex(values []float64) ([]int, error) {
	seen := make(map[int]struct{}, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrInvalidPartner
		}
		d := clampDex(int(math.Trunc(v)))
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Ints(out)
	return out, nil
}

func clampDex(d int) int {
	if d < 1 {
		return 1
	}
	if d > MaxDex {
		return MaxDex
	}
	return d
}

// ParsePartner reads a stored partner JSON document. The dex field must be an
// array of numbers; name and updatedAt fall back to defaults.
func ParsePartner(raw []byte, now time.Time) (Partner, error) {
	var doc struct {
		Name      any `json:"name"`
		Dex       any `json:"dex"`
		UpdatedAt any `json:"updatedAt"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Partner{}, ErrInvalidPartner
	}

	items, ok := doc.Dex.([]any)
	if !ok {
		return Partner{}, ErrInvalidPartner
	}
	values := make([]float64, 0, len(items))
	for _, item := range items {
		f, ok := item.(float64)
		if !ok {
			return Partner{}, ErrInvalidPartner
		}
		values = append(values, f)
	}
	dex, err := NormalizePartnerDex(values)
	if err != nil {
		return Partner{}, err
	}

	p := Partner{Name: DefaultPartnerName, Dex: dex, UpdatedAt: now}
	if name, ok := doc.Name.(string); ok && strings.TrimSpace(name) != "" {
		p.Name = strings.TrimSpace(name)
	}
	if ts, ok := doc.UpdatedAt.(string); ok && ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			p.UpdatedAt = t
		}
	}
	return p, nil
}
