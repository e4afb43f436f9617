package catalog

import "fmt"

// Kind identifies which transfer behaviour a catalog type follows.
type Kind int

const (
	// KindInvalid is the zero value; it is never givable nor takeable.
	KindInvalid Kind = iota
	// KindMoney is the national treasury.
	KindMoney
	// KindResource is a stockpiled good.
	KindResource
	// KindLabor is the allocation of the industry's labor pool.
	KindLabor
	// KindTechnology is membership in the player's technology set.
	KindTechnology
	// KindMerchantMarine is the per-resource international trade limit.
	KindMerchantMarine
	// KindTransportCapacity is the domestic transport capacity.
	KindTransportCapacity
	// KindWorkerType is a population of workers with fixed labor each.
	KindWorkerType
	// KindSpecialistType spawns tile units.
	KindSpecialistType
	// KindUnitType spawns military units.
	KindUnitType
	// KindProductionCenterType adds a production center.
	KindProductionCenterType
	// KindDate gates on the current game date.
	KindDate

	kindCount
)

// KindCount is the number of kinds including KindInvalid, for table sizing.
const KindCount = int(kindCount)

var kindNames = [...]string{
	KindInvalid:              "invalid",
	KindMoney:                "money",
	KindResource:             "resource",
	KindLabor:                "labor",
	KindTechnology:           "technology",
	KindMerchantMarine:       "merchant_marine",
	KindTransportCapacity:    "transport_capacity",
	KindWorkerType:           "worker",
	KindSpecialistType:       "specialist",
	KindUnitType:             "unit",
	KindProductionCenterType: "production_center",
	KindDate:                 "date",
}

// String returns the document name of the kind.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Singleton reports whether a mod defines at most one type of this kind.
func (k Kind) Singleton() bool {
	switch k {
	case KindMoney, KindLabor, KindMerchantMarine, KindTransportCapacity, KindDate:
		return true
	default:
		return false
	}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k > KindInvalid && k < kindCount
}

// ParseKind resolves a kind from its document name.
func ParseKind(name string) (Kind, error) {
	for k := KindMoney; k < kindCount; k++ {
		if kindNames[k] == name {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("unknown kind %q", name)
}

// Kinds returns every valid kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, KindCount-1)
	for k := KindMoney; k < kindCount; k++ {
		out = append(out, k)
	}
	return out
}

// UnmarshalText lets kinds be decoded from YAML and JSON strings.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
