package generation_form

import (
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"visionary/entities"
)

// ToggleLora removes name from the selection if present, otherwise appends it
// with the default strength.
func (c *Controller) ToggleLora(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()

	if lo.ContainsBy(c.selectedLoras, func(l entities.LoraSelection) bool { return l.Name == name }) {
		c.selectedLoras = lo.Reject(c.selectedLoras, func(l entities.LoraSelection, _ int) bool { return l.Name == name })
		return
	}
	c.selectedLoras = append(c.selectedLoras, entities.LoraSelection{Name: name, Strength: defaultStrength})
}

// IsSelected reports whether name is in the LoRA selection.
func (c *Controller) IsSelected(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return lo.ContainsBy(c.selectedLoras, func(l entities.LoraSelection) bool { return l.Name == name })
}

// UpdateStrength sets the strength of the selection entry at index. Input
// that does not parse to a finite number, or an index outside the
// selection, is dropped without touching the state.
func (c *Controller) UpdateStrength(index int, raw string) bool {
	strength, ok := parseFloat(raw)
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if index < 0 || index >= len(c.selectedLoras) {
		return false
	}
	c.touch()

	c.selectedLoras[index].Strength = strength
	return true
}

func parseFloat(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseInt(raw string) (int, bool) {
	i, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	return i, true
}
