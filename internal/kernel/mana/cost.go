package mana

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// symbolPattern matches a single brace-delimited mana symbol, e.g. "{2}",
// "{G}", "{X}", "{W/U}", "{2/B}", "{G/P}". Grounded on the teacher's
// mana.ParseCost regex.
var symbolPattern = regexp.MustCompile(`\{([^}]+)\}`)

// HybridCost is a single hybrid symbol: it can be paid by any one of
// ColorOptions, or, if GenericAmount > 0, by that many generic mana
// instead (the "2/B" shape, as opposed to the color/color "W/U" shape).
type HybridCost struct {
	ColorOptions  []ManaType
	GenericAmount int
}

// PhyrexianCost is a single phyrexian symbol: payable with one mana of
// Color, or with LifeCost life (spec §4.2: "phyrexian accepts its color
// or two life").
type PhyrexianCost struct {
	Color    ManaType
	LifeCost int
}

// Cost is a parsed mana cost: a multiset of symbols drawn from
// {generic(n), color(c), X, hybrid(c1|c2), phyrexian(c)} (spec §4.2).
type Cost struct {
	Generic   int
	White     int
	Blue      int
	Black     int
	Red       int
	Green     int
	Colorless int
	X         bool
	Hybrid    []HybridCost
	Phyrexian []PhyrexianCost
}

// colorField returns a pointer to the cost's count for one color, used to
// keep the parse/search loops free of per-color switch duplication.
func (c *Cost) colorField(t ManaType) *int {
	switch t {
	case White:
		return &c.White
	case Blue:
		return &c.Blue
	case Black:
		return &c.Black
	case Red:
		return &c.Red
	case Green:
		return &c.Green
	case Colorless:
		return &c.Colorless
	default:
		return nil
	}
}

// ParseCost parses a mana cost string such as "{2}{G}{G}", "{X}{R}",
// "{W/U}", "{2/B}", or "{G/P}".
func ParseCost(costStr string) (*Cost, error) {
	if costStr == "" {
		return &Cost{}, nil
	}
	cost := &Cost{}
	for _, match := range symbolPattern.FindAllStringSubmatch(costStr, -1) {
		if len(match) < 2 {
			continue
		}
		if err := cost.applySymbol(strings.ToUpper(strings.TrimSpace(match[1]))); err != nil {
			return nil, err
		}
	}
	return cost, nil
}

func (c *Cost) applySymbol(symbol string) error {
	switch symbol {
	case "X":
		c.X = true
		return nil
	case "W", "U", "B", "R", "G", "C":
		*c.colorField(ManaType(symbol))++
		return nil
	}
	if num, err := strconv.Atoi(symbol); err == nil {
		c.Generic += num
		return nil
	}
	if strings.HasSuffix(symbol, "/P") {
		colorPart := strings.TrimSuffix(symbol, "/P")
		color := ManaType(colorPart)
		if c.colorField(color) == nil {
			return fmt.Errorf("unknown phyrexian mana color: {%s}", symbol)
		}
		c.Phyrexian = append(c.Phyrexian, PhyrexianCost{Color: color, LifeCost: 2})
		return nil
	}
	if strings.Contains(symbol, "/") {
		parts := strings.SplitN(symbol, "/", 2)
		hybrid := HybridCost{}
		for _, part := range parts {
			if num, err := strconv.Atoi(part); err == nil {
				hybrid.GenericAmount = num
				continue
			}
			t := ManaType(part)
			if c.colorField(t) == nil {
				return fmt.Errorf("unknown mana symbol: {%s}", symbol)
			}
			hybrid.ColorOptions = append(hybrid.ColorOptions, t)
		}
		if len(hybrid.ColorOptions) == 0 && hybrid.GenericAmount == 0 {
			return fmt.Errorf("unparseable hybrid symbol: {%s}", symbol)
		}
		c.Hybrid = append(c.Hybrid, hybrid)
		return nil
	}
	return fmt.Errorf("unknown mana symbol: {%s}", symbol)
}

// String renders the cost back into brace notation, mainly for trace logs.
func (c *Cost) String() string {
	var b strings.Builder
	if c.X {
		b.WriteString("{X}")
	}
	if c.Generic > 0 {
		fmt.Fprintf(&b, "{%d}", c.Generic)
	}
	for _, t := range colorOrder {
		n := *c.colorField(t)
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "{%s}", t)
		}
	}
	for _, h := range c.Hybrid {
		left := "?"
		if h.GenericAmount > 0 {
			left = strconv.Itoa(h.GenericAmount)
		} else if len(h.ColorOptions) > 0 {
			left = string(h.ColorOptions[0])
		}
		right := ""
		if len(h.ColorOptions) > 0 {
			if h.GenericAmount > 0 {
				right = string(h.ColorOptions[0])
			} else if len(h.ColorOptions) > 1 {
				right = string(h.ColorOptions[1])
			}
		}
		if right != "" {
			fmt.Fprintf(&b, "{%s/%s}", left, right)
		} else {
			fmt.Fprintf(&b, "{%s}", left)
		}
	}
	for _, ph := range c.Phyrexian {
		fmt.Fprintf(&b, "{%s/P}", ph.Color)
	}
	return b.String()
}

// ConvertedManaCost (CMC) sums every symbol's generic-equivalent value,
// with X bound to xValue.
func (c *Cost) ConvertedManaCost(xValue int) int {
	total := c.Generic + c.White + c.Blue + c.Black + c.Red + c.Green + c.Colorless
	if c.X {
		total += xValue
	}
	for _, h := range c.Hybrid {
		if h.GenericAmount > 0 {
			total += h.GenericAmount
		} else {
			total++
		}
	}
	total += len(c.Phyrexian)
	return total
}

// Reduce applies a generic cost reduction and per-color reductions,
// floored at zero each. Hybrid and phyrexian symbols are never reduced,
// mirroring the teacher's ApplyReduction.
func (c *Cost) Reduce(generic int, colored map[ManaType]int) *Cost {
	r := *c
	r.Generic = floor0(r.Generic - generic)
	for _, t := range colorOrder {
		if n, ok := colored[t]; ok {
			f := r.colorField(t)
			*f = floor0(*f - n)
		}
	}
	return &r
}

func floor0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
