package family_test

import (
	"testing"

	"github.com/shelfguard/shelfguard/pkg/family"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		name      string
		wantUnit  string
		wantValue float64
		ok        bool
	}{
		{name: "AYRAN 330 ML", wantUnit: "ML", wantValue: 330, ok: true},
		{name: "KOLA 2.5 LT", wantUnit: "ML", wantValue: 2500, ok: true},
		{name: "SU 1 L", wantUnit: "ML", wantValue: 1000, ok: true},
		{name: "CIKOLATA 80 GR", wantUnit: "G", wantValue: 80, ok: true},
		{name: "PIRINC 2,5 KG", wantUnit: "G", wantValue: 2500, ok: true},
		{name: "SAKIZ 14 G", wantUnit: "G", wantValue: 14, ok: true},
		{name: "MILFOY HAMURU", ok: false},
		{name: "GLUTEN 500", ok: false}, // bare number, no unit
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			size, ok := family.ParseSize(tc.name)
			if ok != tc.ok {
				t.Fatalf("ParseSize(%q) ok = %v, want %v", tc.name, ok, tc.ok)
			}
			if !ok {
				return
			}
			if size.Unit != tc.wantUnit || size.Value != tc.wantValue {
				t.Errorf("ParseSize(%q) = %v %s, want %v %s", tc.name, size.Value, size.Unit, tc.wantValue, tc.wantUnit)
			}
		})
	}
}

func TestCompatible(t *testing.T) {
	ml330 := family.Size{Unit: "ML", Value: 330}
	ml990 := family.Size{Unit: "ML", Value: 990}
	ml2500 := family.Size{Unit: "ML", Value: 2500}
	g330 := family.Size{Unit: "G", Value: 330}

	if !family.Compatible(ml330, ml990) {
		t.Error("330 ML and 990 ML should be compatible (3x)")
	}
	if family.Compatible(ml330, ml2500) {
		t.Error("330 ML and 2500 ML should not be compatible")
	}
	if family.Compatible(ml330, g330) {
		t.Error("different units are never compatible")
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		size family.Size
		want string
	}{
		{family.Size{Unit: "ML", Value: 330}, "S"},
		{family.Size{Unit: "ML", Value: 1000}, "M"},
		{family.Size{Unit: "ML", Value: 2500}, "L"},
		{family.Size{Unit: "G", Value: 80}, "S"},
		{family.Size{Unit: "G", Value: 400}, "M"},
		{family.Size{Unit: "G", Value: 900}, "L"},
	}
	for _, tc := range tests {
		if got := family.Bucket(tc.size); got != tc.want {
			t.Errorf("Bucket(%v %s) = %q, want %q", tc.size.Value, tc.size.Unit, got, tc.want)
		}
	}
}

func TestGroupProducts_CodeConfusion(t *testing.T) {
	// A shortage of 5 on one variant and a surplus of 4 on its sibling
	// nets to -1: code confusion, not loss.
	families := family.GroupProducts([]family.Input{
		{ProductID: "1", ProductName: "FANTA PORTAKAL 330 ML KUTU", Group: "ICECEK", NetQty: -5},
		{ProductID: "2", ProductName: "FANTA PORTAKAL LIGHT 330 ML KUTU", Group: "ICECEK", NetQty: 4},
	})
	if len(families) != 1 {
		t.Fatalf("expected 1 family, got %d", len(families))
	}
	f := families[0]
	if f.Class != family.ClassCodeConfusion {
		t.Errorf("expected CODE_CONFUSION, got %s", f.Class)
	}
	if f.NetQty != -1 {
		t.Errorf("expected net -1, got %f", f.NetQty)
	}
}

func TestGroupProducts_NetShortage(t *testing.T) {
	families := family.GroupProducts([]family.Input{
		{ProductID: "1", ProductName: "FANTA PORTAKAL 330 ML KUTU", Group: "ICECEK", NetQty: -8},
		{ProductID: "2", ProductName: "FANTA PORTAKAL LIGHT 330 ML KUTU", Group: "ICECEK", NetQty: 2},
	})
	if len(families) != 1 {
		t.Fatalf("expected 1 family, got %d", len(families))
	}
	if families[0].Class != family.ClassNetShortage {
		t.Errorf("expected NET_SHORTAGE, got %s", families[0].Class)
	}
}

func TestGroupProducts_SizeBucketSplitsFamilies(t *testing.T) {
	// Same name shape, wildly different sizes: different buckets, so the
	// movements must not offset each other.
	families := family.GroupProducts([]family.Input{
		{ProductID: "1", ProductName: "KOLA ORJINAL 330 ML KUTU", Group: "ICECEK", NetQty: -5},
		{ProductID: "2", ProductName: "KOLA ORJINAL 2.5 LT KUTU", Group: "ICECEK", NetQty: 5},
	})
	if len(families) != 0 {
		t.Errorf("expected no reportable families across size buckets, got %d", len(families))
	}
}

func TestGroupProducts_IncompatibleSizesSplit(t *testing.T) {
	// 100 ML and 350 ML share the small bucket but exceed the 3x ratio
	// rule; they must not form a family.
	families := family.GroupProducts([]family.Input{
		{ProductID: "1", ProductName: "KOLA ZERO 100 ML KUTU", Group: "ICECEK", NetQty: -5},
		{ProductID: "2", ProductName: "KOLA ZERO 350 ML KUTU", Group: "ICECEK", NetQty: 1},
	})
	if len(families) != 0 {
		t.Errorf("expected incompatible sizes to split the family, got %d", len(families))
	}

	// A third member within ratio of the first still forms a family with it.
	families = family.GroupProducts([]family.Input{
		{ProductID: "1", ProductName: "KOLA ZERO 100 ML KUTU", Group: "ICECEK", NetQty: -5},
		{ProductID: "2", ProductName: "KOLA ZERO 350 ML KUTU", Group: "ICECEK", NetQty: 1},
		{ProductID: "3", ProductName: "KOLA ZERO 250 ML KUTU", Group: "ICECEK", NetQty: 1},
	})
	if len(families) != 1 {
		t.Fatalf("expected 1 family after dropping the incompatible member, got %d", len(families))
	}
	if len(families[0].Members) != 2 {
		t.Errorf("expected 2 compatible members, got %d", len(families[0].Members))
	}
}

func TestGroupProducts_SingletonsIgnored(t *testing.T) {
	families := family.GroupProducts([]family.Input{
		{ProductID: "1", ProductName: "AYRAN SADE 200 ML", Group: "ICECEK", NetQty: -9},
	})
	if len(families) != 0 {
		t.Errorf("expected no families for singleton, got %d", len(families))
	}
}
