package gallery

import (
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// Sort methods, as stored in the config file
const (
	SortNatural    = 0 // file1, file2, file10
	SortSimple     = 1 // byte order
	SortEntryOrder = 2 // walk or archive order
)

// SortStrategy orders directory and archive contents
type SortStrategy struct {
	id      int
	name    string
	aliases []string
	less    func(a, b string) bool // nil keeps the input order
}

var sortStrategies = []SortStrategy{
	{id: SortNatural, name: "Natural", aliases: []string{"natural"}, less: natural.Less},
	{id: SortSimple, name: "Simple", aliases: []string{"simple"}, less: func(a, b string) bool { return a < b }},
	{id: SortEntryOrder, name: "Entry Order", aliases: []string{"entry", "entry-order"}},
}

// Sort returns a sorted copy; the input is left untouched
func (s SortStrategy) Sort(images []ImagePath) []ImagePath {
	result := append([]ImagePath(nil), images...)
	if s.less != nil {
		sort.SliceStable(result, func(i, j int) bool {
			return s.less(result[i].Path, result[j].Path)
		})
	}
	return result
}

func (s SortStrategy) Name() string { return s.name }
func (s SortStrategy) ID() int      { return s.id }

// Key is the primary name SortMethodByName accepts for the strategy
func (s SortStrategy) Key() string { return s.aliases[0] }

// GetSortStrategy returns the strategy for a sort method, falling back to natural order
func GetSortStrategy(sortMethod int) SortStrategy {
	for _, s := range sortStrategies {
		if s.id == sortMethod {
			return s
		}
	}
	return sortStrategies[0]
}

// GetAllSortStrategies lists the strategies in method order
func GetAllSortStrategies() []SortStrategy {
	return append([]SortStrategy(nil), sortStrategies...)
}

// SortMethodByName resolves a command line name ("natural", "simple" or "entry") to a sort method
func SortMethodByName(name string) (int, bool) {
	name = strings.ToLower(name)
	for _, s := range sortStrategies {
		for _, alias := range s.aliases {
			if alias == name {
				return s.id, true
			}
		}
	}
	return 0, false
}

// SortNames sorts plain names in natural order, in place
func SortNames(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return natural.Less(names[i], names[j])
	})
}
