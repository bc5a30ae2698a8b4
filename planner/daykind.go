package planner

import "strings"

// Kind is a coarse category of a day's activity, used to pick an icon.
type Kind string

const (
	KindArrival     Kind = "arrival"
	KindDeparture   Kind = "departure"
	KindTransport   Kind = "transport"
	KindStay        Kind = "stay"
	KindCulture     Kind = "culture"
	KindFood        Kind = "food"
	KindShopping    Kind = "shopping"
	KindWater       Kind = "water"
	KindNature      Kind = "nature"
	KindNightlife   Kind = "nightlife"
	KindNight       Kind = "night"
	KindMorning     Kind = "morning"
	KindSightseeing Kind = "sightseeing"
)

// order matters: the first matching rule wins.
var kindRules = []struct {
	kind  Kind
	words []string
}{
	{KindDeparture, []string{"depart", "fly", "airport", "check-out", "leave"}},
	{KindTransport, []string{"drive", "transfer", "taxi", "bus", "ride", "train"}},
	{KindStay, []string{"hotel", "resort", "relax", "spa", "leisure", "check in"}},
	{KindCulture, []string{"museum", "history", "culture", "temple", "art", "palace", "castle", "monument", "church", "cathedral"}},
	{KindFood, []string{"food", "dinner", "lunch", "breakfast", "tasting", "eat", "restaurant", "cafe", "bar", "wine"}},
	{KindShopping, []string{"shop", "market", "mall", "souvenir", "store", "boutique"}},
	{KindWater, []string{"beach", "swim", "water", "cruise", "boat", "island", "lake", "sea", "ocean", "river"}},
	{KindNature, []string{"hike", "mountain", "trek", "nature", "park", "forest", "jungle", "garden", "zoo"}},
	{KindNightlife, []string{"show", "performance", "music", "concert", "club", "dance"}},
	{KindNight, []string{"night", "evening"}},
	{KindMorning, []string{"morning", "sunrise"}},
}

var arrivalWords = []string{"arriv", "land", "welcome", "check-in"}

// DayKind classifies an itinerary activity by keyword. Arrival is only
// considered on day 1.
func DayKind(activity string, day int) Kind {
	text := strings.ToLower(activity)
	if day == 1 && containsAny(text, arrivalWords) {
		return KindArrival
	}
	for _, r := range kindRules {
		if containsAny(text, r.words) {
			return r.kind
		}
	}
	return KindSightseeing
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
