package gemini

import (
	"fmt"

	"google.golang.org/genai"
)

// MaxDiscovered caps the number of places returned by a nearby query.
const MaxDiscovered = 3

func packagePrompt(city string) string {
	return fmt.Sprintf(`Create a detailed travel package for %s.
I need the following information in strict JSON format:
- city: The name of the city
- country: The country it belongs to
- description: A captivating 2-sentence description of the destination
- duration: Recommended duration (e.g., "5 Days / 4 Nights")
- cost: Estimated cost for a couple in USD (e.g., "$1,200 - $1,500")
- coordinates: The latitude and longitude of the city center
- places: A list of 5 specific famous places/attractions to visit within the city. For each place, provide its name, a short description, and its coordinates (lat, lng).
- itinerary: An array of objects with 'day' (number) and 'activity' (string summary of the day) for the recommended duration (max 5 days)
- bestTime: Best months to visit
- themes: A list of 3 travel themes (e.g., "Adventure", "Honeymoon", "Cultural")
`, city)
}

func nearbyPrompt(lat, lng float64, city string) string {
	return fmt.Sprintf(`Find %d interesting places to visit near latitude %v and longitude %v in or near %s.
These should be distinct from major landmarks if possible (hidden gems, local favorites, cafes, parks).
Return strict JSON array of objects with:
- name: Name of the place
- description: Very short description (10 words max)
- coordinates: { lat, lng }
`, MaxDiscovered, lat, lng, city)
}

func coordinatesSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"lat": {Type: genai.TypeNumber},
			"lng": {Type: genai.TypeNumber},
		},
		Required: []string{"lat", "lng"},
	}
}

func placeSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":        {Type: genai.TypeString},
			"description": {Type: genai.TypeString},
			"coordinates": coordinatesSchema(),
		},
		Required: []string{"name", "description", "coordinates"},
	}
}

// PackageSchema is the response schema for a full travel package.
func PackageSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"city":        {Type: genai.TypeString},
			"country":     {Type: genai.TypeString},
			"description": {Type: genai.TypeString},
			"duration":    {Type: genai.TypeString},
			"cost":        {Type: genai.TypeString},
			"coordinates": coordinatesSchema(),
			"places": {
				Type:  genai.TypeArray,
				Items: placeSchema(),
			},
			"itinerary": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"day":      {Type: genai.TypeNumber},
						"activity": {Type: genai.TypeString},
					},
					Required: []string{"day", "activity"},
				},
			},
			"bestTime": {Type: genai.TypeString},
			"themes": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"city", "country", "description", "duration", "cost",
			"coordinates", "places", "itinerary", "bestTime", "themes"},
	}
}

// NearbySchema is the response schema for a nearby discovery query.
func NearbySchema() *genai.Schema {
	return &genai.Schema{
		Type:  genai.TypeArray,
		Items: placeSchema(),
	}
}
