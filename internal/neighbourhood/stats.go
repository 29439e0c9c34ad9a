package neighbourhood

import (
	"sort"
	"strings"
	"time"

	"github.com/EmpoweredVote/police-explorer/internal/police"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CrimeStat is the number of crimes in one display category.
type CrimeStat struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// AggregateCategories counts crimes per category slug and returns the
// counts with display labels, most frequent first. Ties keep the order in
// which each category was first seen.
func AggregateCategories(crimes []police.CrimeRecord) []CrimeStat {
	stats := make([]CrimeStat, 0)
	index := make(map[string]int)
	for _, c := range crimes {
		i, ok := index[c.Category]
		if !ok {
			i = len(stats)
			index[c.Category] = i
			stats = append(stats, CrimeStat{Category: c.Category})
		}
		stats[i].Count++
	}

	// cases.Caser keeps state between calls and is not safe to share.
	caser := cases.Title(language.BritishEnglish, cases.NoLower)
	for i := range stats {
		stats[i].Category = categoryLabel(caser, stats[i].Category)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	return stats
}

// CategoryLabel turns a slug such as "anti-social-behaviour" into
// "Anti Social Behaviour".
func CategoryLabel(slug string) string {
	return categoryLabel(cases.Title(language.BritishEnglish, cases.NoLower), slug)
}

func categoryLabel(caser cases.Caser, slug string) string {
	words := strings.Split(strings.ReplaceAll(slug, "-", " "), " ")
	for i, w := range words {
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// markerLabel is the upper-case label shown on map markers.
func markerLabel(slug string) string {
	return strings.ToUpper(strings.ReplaceAll(slug, "-", " "))
}

// CrimeMonth is the YYYY-MM month queried for street crime: six calendar
// months before now, in UTC. Day overflow normalises forwards the way
// time.AddDate does (31 Aug minus six months is 3 Mar).
func CrimeMonth(now time.Time) string {
	return now.UTC().AddDate(0, -6, 0).Format("2006-01")
}
