package domain

import "sort"

// LocationLookup maps an airport code to its city name in the configured locale.
type LocationLookup map[string]string

func (l LocationLookup) City(airportCode string) (string, bool) {
	city, ok := l[airportCode]
	return city, ok
}

// Cities returns the distinct city names, sorted.
func (l LocationLookup) Cities() []string {
	seen := make(map[string]struct{}, len(l))
	cities := make([]string, 0, len(l))
	for _, city := range l {
		if _, ok := seen[city]; ok {
			continue
		}
		seen[city] = struct{}{}
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}
