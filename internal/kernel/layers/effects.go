package layers

// PTBoost adds power/toughness (layer 7c, "modify P/T not from counters"),
// e.g. a pump spell or an anthem effect. Filter decides which snapshots it
// applies to.
type PTBoost struct {
	Base
	Power, Toughness int
	Filter           func(*Snapshot) bool
}

// NewPTBoost returns a +X/+Y (or -X/-Y) continuous effect in sublayer 7c.
func NewPTBoost(id string, timestamp int64, power, toughness int, filter func(*Snapshot) bool) *PTBoost {
	return &PTBoost{Base: NewBase(id, LayerPowerToughness, Sublayer7cModifyPT, timestamp), Power: power, Toughness: toughness, Filter: filter}
}

func (p *PTBoost) AppliesTo(s *Snapshot) bool { return p.Filter == nil || p.Filter(s) }
func (p *PTBoost) Apply(s *Snapshot)          { s.Power += p.Power; s.Toughness += p.Toughness }

// PTSet sets power/toughness to an exact value (layer 7b), e.g.
// "becomes a 1/1 until end of turn".
type PTSet struct {
	Base
	Power, Toughness int
	Filter           func(*Snapshot) bool
}

// NewPTSet returns a set-P/T continuous effect in sublayer 7b.
func NewPTSet(id string, timestamp int64, power, toughness int, filter func(*Snapshot) bool) *PTSet {
	return &PTSet{Base: NewBase(id, LayerPowerToughness, Sublayer7bSetPT, timestamp), Power: power, Toughness: toughness, Filter: filter}
}

func (p *PTSet) AppliesTo(s *Snapshot) bool { return p.Filter == nil || p.Filter(s) }
func (p *PTSet) Apply(s *Snapshot)          { s.Power = p.Power; s.Toughness = p.Toughness; s.HasBasePT = true }

// typeWriter is implemented by layer-4 effects that can change which types
// a snapshot carries, letting another effect's DependsOn detect that it
// reads a characteristic the first effect writes (CR 613.8).
type typeWriter interface {
	writesType(name string) bool
}

// TypeAdd adds a card type (layer 4), e.g. "becomes an artifact in
// addition to its other types". ReadsType, if set, names a type this
// effect's Filter tests the snapshot for ("each land is also a Swamp"
// reads Land) so DependsOn can detect an ordering dependency on any
// earlier effect that changes that type's presence.
type TypeAdd struct {
	Base
	Type      string
	ReadsType string
	Filter    func(*Snapshot) bool
}

// NewTypeAdd returns a type-adding continuous effect in layer 4 with no
// recorded dependency on another effect's type changes.
func NewTypeAdd(id string, timestamp int64, typeName string, filter func(*Snapshot) bool) *TypeAdd {
	return &TypeAdd{Base: NewBase(id, LayerType, SublayerNone, timestamp), Type: typeName, Filter: filter}
}

// NewConditionalTypeAdd is NewTypeAdd for an effect whose Filter decides
// applicability by checking for readsType on the snapshot, so that an
// earlier effect removing or granting readsType is ordered before this one.
func NewConditionalTypeAdd(id string, timestamp int64, typeName, readsType string, filter func(*Snapshot) bool) *TypeAdd {
	return &TypeAdd{Base: NewBase(id, LayerType, SublayerNone, timestamp), Type: typeName, ReadsType: readsType, Filter: filter}
}

func (t *TypeAdd) AppliesTo(s *Snapshot) bool { return t.Filter == nil || t.Filter(s) }
func (t *TypeAdd) Apply(s *Snapshot) {
	if !s.HasType(t.Type) {
		s.Types = append(s.Types, t.Type)
	}
}

func (t *TypeAdd) writesType(name string) bool { return t.Type == name }

// DependsOn reports a dependency on other when other can change the
// presence of the type this effect's Filter reads (CR 613.8: "effect A
// depends on effect B if ... B changes the text of A, or changes a
// characteristic A's text refers to").
func (t *TypeAdd) DependsOn(other Effect) bool {
	if t.ReadsType == "" {
		return false
	}
	tw, ok := other.(typeWriter)
	return ok && tw.writesType(t.ReadsType)
}

// TypeSet replaces every type with a new set (layer 4), e.g. "nonbasic
// lands are Mountains" — the full-replacement counterpart to TypeAdd's
// additive "is also a...". Because a replacement can remove any type, it
// reports writesType true for every name: an earlier-ordered TypeSet always
// counts as a potential dependency source for a later conditional TypeAdd.
type TypeSet struct {
	Base
	Types  []string
	Filter func(*Snapshot) bool
}

// NewTypeSet returns a type-replacing continuous effect in layer 4.
func NewTypeSet(id string, timestamp int64, types []string, filter func(*Snapshot) bool) *TypeSet {
	return &TypeSet{Base: NewBase(id, LayerType, SublayerNone, timestamp), Types: append([]string(nil), types...), Filter: filter}
}

func (t *TypeSet) AppliesTo(s *Snapshot) bool { return t.Filter == nil || t.Filter(s) }
func (t *TypeSet) Apply(s *Snapshot)          { s.Types = append([]string(nil), t.Types...) }
func (t *TypeSet) writesType(string) bool     { return true }

// KeywordGrant grants a keyword ability (layer 6), e.g. "gains flying".
type KeywordGrant struct {
	Base
	Keyword string
	Filter  func(*Snapshot) bool
}

// NewKeywordGrant returns a keyword-granting continuous effect in layer 6.
func NewKeywordGrant(id string, timestamp int64, keyword string, filter func(*Snapshot) bool) *KeywordGrant {
	return &KeywordGrant{Base: NewBase(id, LayerAbility, SublayerNone, timestamp), Keyword: keyword, Filter: filter}
}

func (k *KeywordGrant) AppliesTo(s *Snapshot) bool { return k.Filter == nil || k.Filter(s) }
func (k *KeywordGrant) Apply(s *Snapshot)          { s.Keywords[k.Keyword] = true }

// CounterPT applies the snapshot's +1/+1 vs -1/-1 counter net as a layer
// 7d power/toughness change (spec §4.7: counters are already cancelled in
// pairs by the SBA sweep before this ever runs, so only one sign of
// counter ever contributes here).
type CounterPT struct {
	Base
	Power, Toughness int
}

// NewCounterPT returns a layer 7d effect contributing a permanent's
// current +1/+1 (or -1/-1) counter net.
func NewCounterPT(id string, timestamp int64, power, toughness int) *CounterPT {
	return &CounterPT{Base: NewBase(id, LayerPowerToughness, Sublayer7dCounters, timestamp), Power: power, Toughness: toughness}
}

func (c *CounterPT) AppliesTo(*Snapshot) bool { return true }
func (c *CounterPT) Apply(s *Snapshot)        { s.Power += c.Power; s.Toughness += c.Toughness }
