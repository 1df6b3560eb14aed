package app

import (
	"math"
	"strconv"
	"strings"
)

/********** alias registries (single source of truth) **********/

var propertyAliases = map[string][]string{
	"hotel_id":     {"hotel_id", "hotelId", "id"},
	"name":         {"hotel_name", "hotel_name_trans", "name"},
	"review_score": {"review_score", "reviewScore", "rating.score", "rating"},
	"review_count": {"review_nr", "review_count", "reviewCount", "rating.count"},
	"class":        {"class", "property_class", "stars"},
	"address":      {"address", "address_trans", "address.line"},
	"city":         {"city", "city_trans", "city_name_en", "address.city"},
	"country":      {"country_trans", "country", "countrycode", "address.country"},
	"lat":          {"latitude", "lat", "location.lat"},
	"lon":          {"longitude", "lon", "lng", "location.lon", "location.lng"},
	"photos":       {"photos", "hotel_photos", "images"},
	"rooms":        {"rooms", "room_list"},
}

var priceAliases = map[string][]string{
	"gross": {
		"product_price_breakdown.gross_amount.value",
		"composite_price_breakdown.gross_amount.value",
		"price_breakdown.gross_amount.value",
		"gross_amount.value",
		"price_breakdown.gross_price",
	},
	"currency": {
		"product_price_breakdown.gross_amount.currency",
		"composite_price_breakdown.gross_amount.currency",
		"price_breakdown.gross_amount.currency",
		"gross_amount.currency",
		"currency_code",
		"currencycode",
	},
}

var roomAliases = map[string][]string{
	"name":      {"name", "room_name", "name_without_policy"},
	"photos":    {"photos", "images"},
	"amenities": {"facilities", "room_facilities", "amenities"},
	"adults":    {"occupancy.adults", "max_adults", "nr_adults"},
	"children":  {"occupancy.children", "max_children", "nr_children"},
	"meal_plan": {"meal_plan.name", "meal_plan", "mealplan"},
}

// urlKeys are tried in order on photo objects; "name" covers facility objects.
var urlKeys = []string{"url_original", "url_max1280", "url_max750", "url_max300", "url", "src", "name"}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func lookupMap(m map[string]any, paths ...string) (map[string]any, bool) {
	for _, p := range paths {
		if obj, ok := lookupAny(m, p).(map[string]any); ok {
			return obj, true
		}
	}
	return nil, false
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstIntFlexible: int from several paths; fractional numbers are truncated.
func firstIntFlexible(m map[string]any, paths ...string) *int {
	if f := getFloatFlexible(m, paths...); f != nil {
		x := int(*f)
		return &x
	}
	return nil
}

// firstIDString: identifier from several paths, keeping numeric ids free of exponent notation.
func firstIDString(m map[string]any, paths ...string) string {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			if v == math.Trunc(v) {
				return strconv.FormatInt(int64(v), 10)
			}
			return strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			return strconv.Itoa(v)
		case int64:
			return strconv.FormatInt(v, 10)
		}
	}
	return ""
}

// firstSliceStrings: accept []any with either strings or objects carrying one of urlKeys.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		raw, ok := lookupAny(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]string, 0, len(raw))
		for _, it := range raw {
			switch t := it.(type) {
			case string:
				if s := strings.TrimSpace(t); s != "" {
					out = append(out, s)
				}
			case map[string]any:
				for _, key := range urlKeys {
					if u, ok := t[key].(string); ok && strings.TrimSpace(u) != "" {
						out = append(out, strings.TrimSpace(u))
						break
					}
				}
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
