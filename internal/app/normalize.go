package app

import (
	"sort"

	"admas_hotel/internal/domain"
)

// Normalize maps a raw hotel-details payload into a CanonicalHotel.
//
// The upstream payload carries one gross amount for the whole stay query, not a
// rate per room. Every room is priced at gross / len(rooms) with no rounding, and
// that quotient is treated as the per-night price. Normalize never mutates raw.
func Normalize(raw map[string]any) (domain.CanonicalHotel, error) {
	if raw == nil {
		return domain.CanonicalHotel{}, &domain.NormalizationError{Reason: "empty payload"}
	}
	data, ok := raw["data"].(map[string]any)
	if !ok {
		return domain.CanonicalHotel{}, &domain.NormalizationError{Reason: "payload has no data block"}
	}

	rawRooms, _ := lookupMap(data, propertyAliases["rooms"]...)
	ids := sortedKeys(rawRooms)

	var perRoom float64
	if gross := getFloatFlexible(data, priceAliases["gross"]...); gross != nil && len(ids) > 0 {
		perRoom = *gross / float64(len(ids))
	}
	currency := firstNonEmptyAlias(data, priceAliases, "currency")

	rooms := make(map[string]domain.RoomOffering, len(ids))
	for _, id := range ids {
		rm, _ := rawRooms[id].(map[string]any)
		rooms[id] = mapRoom(id, rm, domain.Price{Amount: perRoom, Currency: currency, PerNight: true})
	}

	return domain.CanonicalHotel{
		HotelID:  firstIDString(data, propertyAliases["hotel_id"]...),
		Property: mapProperty(data, ids, rooms),
		Rooms:    rooms,
	}, nil
}

func mapProperty(data map[string]any, roomIDs []string, rooms map[string]domain.RoomOffering) domain.Property {
	p := domain.Property{
		Name:          firstNonEmptyAlias(data, propertyAliases, "name"),
		ReviewScore:   getFloatFlexible(data, propertyAliases["review_score"]...),
		PropertyClass: firstIntFlexible(data, propertyAliases["class"]...),
		Location: domain.Location{
			Address: firstNonEmptyAlias(data, propertyAliases, "address"),
			City:    firstNonEmptyAlias(data, propertyAliases, "city"),
			Country: firstNonEmptyAlias(data, propertyAliases, "country"),
		},
		Checkin:  domain.Window{From: lookupStr(data, "checkin.from"), Until: lookupStr(data, "checkin.until")},
		Checkout: domain.Window{From: lookupStr(data, "checkout.from"), Until: lookupStr(data, "checkout.until")},
	}
	if n := firstIntFlexible(data, propertyAliases["review_count"]...); n != nil {
		p.ReviewCount = *n
	}

	lat := getFloatFlexible(data, propertyAliases["lat"]...)
	lon := getFloatFlexible(data, propertyAliases["lon"]...)
	if lat != nil && lon != nil {
		p.Location.Coords = &domain.Coords{Lat: *lat, Lon: *lon}
	}

	// Fall back to room photos when the property has no gallery of its own.
	p.PhotoURLs = firstSliceStrings(data, propertyAliases["photos"]...)
	if len(p.PhotoURLs) == 0 {
		seen := map[string]struct{}{}
		for _, id := range roomIDs {
			for _, u := range rooms[id].Images {
				if _, dup := seen[u]; dup {
					continue
				}
				seen[u] = struct{}{}
				p.PhotoURLs = append(p.PhotoURLs, u)
			}
		}
	}
	p.PhotoURLs = orEmpty(p.PhotoURLs)
	return p
}

func mapRoom(id string, rm map[string]any, price domain.Price) domain.RoomOffering {
	r := domain.RoomOffering{
		ID:        id,
		Name:      firstNonEmptyAlias(rm, roomAliases, "name"),
		Price:     price,
		Capacity:  domain.Capacity{Adults: 1, Children: 0},
		Amenities: orEmpty(firstSliceStrings(rm, roomAliases["amenities"]...)),
		Images:    orEmpty(firstSliceStrings(rm, roomAliases["photos"]...)),
		MealPlan:  firstNonEmptyAlias(rm, roomAliases, "meal_plan"),
	}
	if r.Name == "" {
		r.Name = "Room " + id
	}
	if a := firstIntFlexible(rm, roomAliases["adults"]...); a != nil {
		r.Capacity.Adults = *a
	}
	if c := firstIntFlexible(rm, roomAliases["children"]...); c != nil {
		r.Capacity.Children = *c
	}
	return r
}

func sortedKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
