package domain

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Center represents a physical clinic location of an organization
type Center struct {
	ID    string
	OrgID string
	Name  string
}

// Box represents a consulting room inside a center
type Box struct {
	ID       string
	OrgID    string
	CenterID string
	Name     string
}

// Doctor represents a practitioner registered at a center
type Doctor struct {
	ID       string
	OrgID    string
	CenterID string
	Name     string
}

// NormalizeName is the matching key for case-insensitive name lookups
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SortBoxesNatural orders boxes so that "Box 2" comes before "Box 10"
func SortBoxesNatural(boxes []*Box) {
	sort.SliceStable(boxes, func(i, j int) bool {
		return naturalLess(boxes[i].Name, boxes[j].Name)
	})
}

// naturalLess сравнивает строки, считая последовательности цифр числами
func naturalLess(a, b string) bool {
	ca, cb := chunks(strings.ToLower(a)), chunks(strings.ToLower(b))
	for i := 0; i < len(ca) && i < len(cb); i++ {
		if ca[i] == cb[i] {
			continue
		}
		na, errA := strconv.Atoi(ca[i])
		nb, errB := strconv.Atoi(cb[i])
		if errA == nil && errB == nil && na != nb {
			return na < nb
		}
		return ca[i] < cb[i]
	}
	return len(ca) < len(cb)
}

func chunks(s string) []string {
	var result []string
	var current strings.Builder
	digit := false
	for i, r := range s {
		isDigit := unicode.IsDigit(r)
		if i > 0 && isDigit != digit {
			result = append(result, current.String())
			current.Reset()
		}
		digit = isDigit
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		result = append(result, current.String())
	}
	return result
}
