package polar

import (
	"fmt"
	"sort"
)

// Above 12 knots the dinghy planes on a reach, which is why the 110-135
// degree columns jump between rows.
var dinghy = mustTable("dinghy", "2024.1",
	[]float64{4, 6, 8, 10, 12, 14, 16, 20},
	[]float64{45, 52, 60, 75, 90, 110, 120, 135, 150, 165, 180},
	[][]float64{
		{2.6, 2.9, 3.1, 3.3, 3.4, 3.3, 3.2, 2.9, 2.5, 2.2, 2.0},
		{3.6, 3.9, 4.1, 4.4, 4.5, 4.4, 4.3, 4.0, 3.5, 3.1, 2.9},
		{4.3, 4.6, 4.9, 5.2, 5.4, 5.4, 5.3, 5.0, 4.5, 4.0, 3.8},
		{4.7, 5.0, 5.3, 5.8, 6.1, 6.4, 6.5, 6.2, 5.6, 4.9, 4.6},
		{4.9, 5.2, 5.6, 6.3, 6.9, 7.6, 7.9, 7.6, 6.8, 5.8, 5.4},
		{5.0, 5.3, 5.8, 6.6, 7.6, 8.9, 9.3, 9.0, 8.0, 6.7, 6.1},
		{5.0, 5.4, 5.9, 6.8, 8.2, 10.1, 10.6, 10.3, 9.1, 7.5, 6.8},
		{4.9, 5.3, 5.9, 6.9, 8.6, 11.2, 12.0, 11.8, 10.4, 8.6, 7.6},
	})

var keelboat = mustTable("keelboat", "2023.2",
	[]float64{6, 8, 10, 12, 14, 16, 20},
	[]float64{40, 52, 60, 75, 90, 110, 120, 135, 150, 165, 180},
	[][]float64{
		{3.9, 4.6, 4.9, 5.2, 5.3, 5.2, 5.0, 4.5, 3.8, 3.3, 3.1},
		{4.7, 5.4, 5.7, 6.0, 6.1, 6.1, 5.9, 5.5, 4.8, 4.2, 4.0},
		{5.2, 5.8, 6.1, 6.4, 6.5, 6.6, 6.5, 6.2, 5.6, 5.0, 4.7},
		{5.5, 6.1, 6.3, 6.6, 6.8, 6.9, 6.9, 6.7, 6.2, 5.6, 5.3},
		{5.7, 6.2, 6.4, 6.8, 7.0, 7.2, 7.2, 7.1, 6.7, 6.1, 5.8},
		{5.8, 6.3, 6.5, 6.9, 7.1, 7.4, 7.5, 7.5, 7.1, 6.6, 6.3},
		{5.8, 6.3, 6.6, 7.0, 7.3, 7.7, 7.9, 8.1, 7.8, 7.3, 7.0},
	})

var builtin = map[string]*Table{
	dinghy.Name():   dinghy,
	keelboat.Name(): keelboat,
}

// Dinghy is the school's training dinghy.
func Dinghy() *Table { return dinghy }

// Keelboat is the school's 8 m displacement keelboat.
func Keelboat() *Table { return keelboat }

// Builtin looks up a compiled-in table by name.
func Builtin(name string) (*Table, error) {
	t, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("unknown polar table: %s (available: %v)", name, BuiltinNames())
	}
	return t, nil
}

func BuiltinNames() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
