package almanac

import "time"

// Festival is a calendar festival keyed by exact MM-DD date.
type Festival struct {
	Name   string `json:"name"`
	NameJA string `json:"nameJa"`
	Kind   string `json:"kind"` // "national" | "seasonal" | "traditional"
}

// Festivals maps MM-DD to the festival on that day.
var Festivals = map[string]Festival{
	"01-01": {Name: "New Year's Day", NameJA: "お正月", Kind: "national"},
	"01-07": {Name: "Seven Herb Festival", NameJA: "七草の節句", Kind: "seasonal"},
	"02-03": {Name: "Setsubun", NameJA: "節分", Kind: "seasonal"},
	"03-03": {Name: "Doll Festival", NameJA: "ひな祭り", Kind: "traditional"},
	"04-08": {Name: "Flower Festival", NameJA: "花祭り", Kind: "traditional"},
	"05-05": {Name: "Children's Day", NameJA: "こどもの日", Kind: "national"},
	"07-07": {Name: "Tanabata", NameJA: "七夕", Kind: "traditional"},
	"08-15": {Name: "Obon", NameJA: "お盆", Kind: "traditional"},
	"09-09": {Name: "Chrysanthemum Festival", NameJA: "重陽の節句", Kind: "seasonal"},
	"11-15": {Name: "Shichi-Go-San", NameJA: "七五三", Kind: "traditional"},
	"12-31": {Name: "New Year's Eve", NameJA: "大晦日", Kind: "traditional"},
}

// FestivalOn returns the festival on the date's MM-DD, if any.
func FestivalOn(t time.Time) (Festival, bool) {
	f, ok := Festivals[monthDay(t)]
	return f, ok
}

// Season is a coarse quarter-of-year bucket.
type Season string

const (
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
	Winter Season = "winter"
)

// SeasonOf buckets a date by month: 3-5 spring, 6-8 summer, 9-11 autumn,
// 12-2 winter.
func SeasonOf(t time.Time) Season {
	switch t.Month() {
	case time.March, time.April, time.May:
		return Spring
	case time.June, time.July, time.August:
		return Summer
	case time.September, time.October, time.November:
		return Autumn
	default:
		return Winter
	}
}
