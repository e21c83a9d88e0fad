// Package family groups near-identical product variants (sizes, flavors,
// multipacks) so that offsetting count errors between variants can be told
// apart from genuine loss. Cashiers keying the wrong variant produce a
// shortage on one code and a surplus on its sibling; the family net exposes
// that.
package family

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Class is the verdict for a product family's net movement.
type Class string

const (
	// ClassCodeConfusion: shortages and surpluses cancel out inside the
	// family. Operational sloppiness, not loss.
	ClassCodeConfusion Class = "CODE_CONFUSION"
	// ClassNetShortage: the family as a whole is missing stock.
	ClassNetShortage Class = "NET_SHORTAGE"
	// ClassSurplus: the family gained stock.
	ClassSurplus Class = "SURPLUS"
)

// Quantity net below which a family is considered balanced.
const confusionTolerance = 2.0

// Member is one product's contribution to a family.
type Member struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	NetQty      float64 `json:"net_qty"`
}

// Family is a group of product variants sharing a grouping key.
type Family struct {
	Key     string   `json:"key"`
	Members []Member `json:"members"`
	NetQty  float64  `json:"net_qty"`
	Class   Class    `json:"class"`
}

// Size is a parsed package size, normalized to milliliters or grams.
type Size struct {
	Unit  string // "ML" or "G"
	Value float64
}

var sizePattern = regexp.MustCompile(`(\d+[.,]?\d*)\s*(ML|LT|L|G|GR|KG|MG)\b`)

// ParseSize extracts a package size from a product name. Liters normalize
// to milliliters, kilograms to grams.
func ParseSize(name string) (Size, bool) {
	m := sizePattern.FindStringSubmatch(strings.ToUpper(name))
	if m == nil {
		return Size{}, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil {
		return Size{}, false
	}
	switch m[2] {
	case "LT", "L":
		return Size{Unit: "ML", Value: v * 1000}, true
	case "ML":
		return Size{Unit: "ML", Value: v}, true
	case "KG":
		return Size{Unit: "G", Value: v * 1000}, true
	case "GR", "G":
		return Size{Unit: "G", Value: v}, true
	case "MG":
		return Size{Unit: "G", Value: v / 1000}, true
	}
	return Size{}, false
}

// Compatible reports whether two sizes can belong to the same family:
// same unit, and neither more than three times the other.
func Compatible(a, b Size) bool {
	if a.Unit != b.Unit || a.Value <= 0 || b.Value <= 0 {
		return false
	}
	ratio := a.Value / b.Value
	if ratio < 1 {
		ratio = 1 / ratio
	}
	return ratio <= 3
}

// Bucket places a size into a coarse S/M/L band so that a 330 ML can and a
// 2.5 LT bottle never share a family.
func Bucket(s Size) string {
	switch s.Unit {
	case "ML":
		switch {
		case s.Value <= 400:
			return "S"
		case s.Value <= 1000:
			return "M"
		default:
			return "L"
		}
	case "G":
		switch {
		case s.Value <= 100:
			return "S"
		case s.Value <= 400:
			return "M"
		default:
			return "L"
		}
	}
	return ""
}

// KeyFor builds the family grouping key: the first two words of the name,
// the last word (brand or variant marker), the product group, and the size
// bucket when a size is parseable.
func KeyFor(name, group string) string {
	upper := strings.ToUpper(strings.TrimSpace(name))
	words := strings.Fields(upper)
	if len(words) == 0 {
		return ""
	}

	head := words[0]
	if len(words) > 1 {
		head += " " + words[1]
	}
	tail := ""
	if len(words) > 2 {
		tail = words[len(words)-1]
	}

	bucket := ""
	if size, ok := ParseSize(upper); ok {
		bucket = size.Unit + Bucket(size)
	}

	return fmt.Sprintf("%s|%s|%s|%s", head, tail, strings.ToUpper(group), bucket)
}

// Input is one product's data for grouping.
type Input struct {
	ProductID   string
	ProductName string
	Group       string
	NetQty      float64
}

// filterCompatible drops members whose parsed size is incompatible with an
// earlier member's. The size bucket in the key is coarse; the pairwise
// ratio rule decides actual membership. Members without a parseable size
// are kept.
func filterCompatible(members []Member) []Member {
	kept := members[:0:0]
	var sizes []Size
	for _, m := range members {
		size, ok := ParseSize(m.ProductName)
		if !ok {
			kept = append(kept, m)
			continue
		}
		conflict := false
		for _, s := range sizes {
			if !Compatible(s, size) {
				conflict = true
				break
			}
		}
		if conflict {
			continue
		}
		kept = append(kept, m)
		sizes = append(sizes, size)
	}
	return kept
}

// GroupProducts clusters products into families and classifies each family
// by its net quantity. Families need at least two members and at least one
// nonzero movement to be reported.
func GroupProducts(inputs []Input) []Family {
	byKey := make(map[string][]Member)
	var order []string
	for _, in := range inputs {
		key := KeyFor(in.ProductName, in.Group)
		if key == "" {
			continue
		}
		if _, ok := byKey[key]; !ok {
			order = append(order, key)
		}
		byKey[key] = append(byKey[key], Member{
			ProductID:   in.ProductID,
			ProductName: in.ProductName,
			NetQty:      in.NetQty,
		})
	}

	var families []Family
	for _, key := range order {
		members := filterCompatible(byKey[key])
		if len(members) < 2 {
			continue
		}
		var net float64
		moved := false
		for _, m := range members {
			net += m.NetQty
			if m.NetQty != 0 {
				moved = true
			}
		}
		if !moved {
			continue
		}

		f := Family{Key: key, Members: members, NetQty: net}
		switch {
		case math.Abs(net) <= confusionTolerance:
			f.Class = ClassCodeConfusion
		case net < 0:
			f.Class = ClassNetShortage
		default:
			f.Class = ClassSurplus
		}
		families = append(families, f)
	}
	return families
}
