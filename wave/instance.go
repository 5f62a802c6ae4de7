package wave

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Quantities maps an item index to a quantity. Absent items mean zero.
type Quantities map[int]int

// Units returns the total number of units in q. Order totals used by the
// subproblem objective and by the checker both come from here.
func Units(q Quantities) int {
	total := 0
	for _, n := range q {
		total += n
	}
	return total
}

// sortedItems returns the item indices of q in ascending order.
func (q Quantities) sortedItems() []int {
	items := make([]int, 0, len(q))
	for item := range q {
		items = append(items, item)
	}
	sort.Ints(items)
	return items
}

// Bounds is the inclusive window on the total units of a wave.
type Bounds struct {
	Lower int
	Upper int
}

// Contains reports whether units lies in [Lower, Upper].
func (b Bounds) Contains(units int) bool {
	return units >= b.Lower && units <= b.Upper
}

// Instance describes the orders, aisles and wave bounds of one picking
// problem. It is immutable once built by NewInstance.
type Instance struct {
	orders     []Quantities
	aisles     []Quantities
	numItems   int
	bounds     Bounds
	orderUnits []int
	items      []int
}

// NewInstance validates and copies its input.
// Zero quantities are dropped.
func NewInstance(orders, aisles []Quantities, numItems int, bounds Bounds) (*Instance, error) {
	if numItems < 0 {
		return nil, fmt.Errorf("number of items must be >= 0 (got %d)", numItems)
	}
	if bounds.Lower < 0 || bounds.Upper < 0 {
		return nil, fmt.Errorf("wave bounds must be >= 0 (got [%d, %d])", bounds.Lower, bounds.Upper)
	}
	if bounds.Lower > bounds.Upper {
		return nil, fmt.Errorf("wave lower bound %d exceeds upper bound %d", bounds.Lower, bounds.Upper)
	}

	inst := &Instance{
		orders:     make([]Quantities, len(orders)),
		aisles:     make([]Quantities, len(aisles)),
		numItems:   numItems,
		bounds:     bounds,
		orderUnits: make([]int, len(orders)),
	}

	seen := make(map[int]struct{})
	var err error
	for o, q := range orders {
		if inst.orders[o], err = copyQuantities(q, numItems, seen); err != nil {
			return nil, fmt.Errorf("order %d: %w", o, err)
		}
		inst.orderUnits[o] = Units(inst.orders[o])
	}
	for a, q := range aisles {
		if inst.aisles[a], err = copyQuantities(q, numItems, seen); err != nil {
			return nil, fmt.Errorf("aisle %d: %w", a, err)
		}
	}

	inst.items = make([]int, 0, len(seen))
	for item := range seen {
		inst.items = append(inst.items, item)
	}
	sort.Ints(inst.items)

	return inst, nil
}

func copyQuantities(q Quantities, numItems int, seen map[int]struct{}) (Quantities, error) {
	out := make(Quantities, len(q))
	for item, n := range q {
		if item < 0 || item >= numItems {
			return nil, fmt.Errorf("item %d out of range [0,%d)", item, numItems)
		}
		if n < 0 {
			return nil, fmt.Errorf("item %d has negative quantity %d", item, n)
		}
		if n == 0 {
			continue
		}
		out[item] = n
		seen[item] = struct{}{}
	}
	return out, nil
}

// NumOrders returns the number of orders in the backlog.
func (inst *Instance) NumOrders() int { return len(inst.orders) }

// NumAisles returns the number of aisles.
func (inst *Instance) NumAisles() int { return len(inst.aisles) }

// NumItems returns the size of the item index space.
func (inst *Instance) NumItems() int { return inst.numItems }

// Bounds returns the wave-size window.
func (inst *Instance) Bounds() Bounds { return inst.bounds }

// OrderUnits returns the total units required by order o.
func (inst *Instance) OrderUnits(o int) int { return inst.orderUnits[o] }

// Demand returns the quantity of item required by order o.
func (inst *Instance) Demand(o, item int) int { return inst.orders[o][item] }

// Supply returns the quantity of item available in aisle a.
func (inst *Instance) Supply(a, item int) int { return inst.aisles[a][item] }

// Items returns, ascending, every item index that appears with a positive
// quantity in some order or aisle. The returned slice must not be modified.
func (inst *Instance) Items() []int { return inst.items }

// OrderItems calls fn for each item of order o in ascending item order.
func (inst *Instance) OrderItems(o int, fn func(item, qty int)) {
	q := inst.orders[o]
	for _, item := range q.sortedItems() {
		fn(item, q[item])
	}
}

// AisleItems calls fn for each item of aisle a in ascending item order.
func (inst *Instance) AisleItems(a int, fn func(item, qty int)) {
	q := inst.aisles[a]
	for _, item := range q.sortedItems() {
		fn(item, q[item])
	}
}

// Fingerprint is a 64-bit hash of the canonical form of the instance.
// Equal instances hash equal regardless of map iteration order.
func (inst *Instance) Fingerprint() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 64)
	put := func(v int) {
		buf = binary.LittleEndian.AppendUint64(buf[:0], uint64(v))
		_, _ = d.Write(buf)
	}

	put(inst.numItems)
	put(inst.bounds.Lower)
	put(inst.bounds.Upper)
	for _, group := range [][]Quantities{inst.orders, inst.aisles} {
		put(len(group))
		for _, q := range group {
			put(len(q))
			for _, item := range q.sortedItems() {
				put(item)
				put(q[item])
			}
		}
	}
	return d.Sum64()
}
