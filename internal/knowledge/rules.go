package knowledge

import "strings"

// familyRule maps family-name keywords to typical habitat and diet text. Rules
// run in order; the first keyword hit wins.
type familyRule struct {
	keywords []string
	habitat  string
	diet     string
}

var familyRules = []familyRule{
	{
		keywords: []string{"duck", "goose"},
		habitat:  "Aquatic habitats including lakes, ponds, rivers, and wetlands",
		diet:     "Aquatic plants, seeds, small invertebrates",
	},
	{
		keywords: []string{"hawk", "eagle"},
		habitat:  "Open areas, forests, and grasslands",
		diet:     "Small mammals, birds, reptiles, and fish",
	},
	{
		keywords: []string{"sparrow", "finch"},
		habitat:  "Grasslands, shrublands, and urban areas",
		diet:     "Seeds, insects, and berries",
	},
	{
		keywords: []string{"warbler"},
		habitat:  "Forests and woodlands",
		diet:     "Insects and spiders",
	},
	{
		keywords: []string{"heron", "egret"},
		habitat:  "Wetlands, marshes, and shallow water",
		diet:     "Fish, frogs, and small aquatic animals",
	},
	{
		keywords: []string{"malkoha", "cuckoo"},
		habitat:  "Forests, woodlands, and dense vegetation",
		diet:     "Insects, small reptiles, and fruits",
	},
	{
		keywords: []string{"bee-eater"},
		habitat:  "Open woodlands, savannas, and grasslands",
		diet:     "Flying insects, especially bees and wasps",
	},
	{
		keywords: []string{"bulbul"},
		habitat:  "Tropical forests, gardens, and woodland edges",
		diet:     "Fruits, nectar, insects, and small invertebrates",
	},
	{
		keywords: []string{"flycatcher"},
		habitat:  "Forest canopy, woodland edges, and gardens",
		diet:     "Flying insects caught on the wing",
	},
}

const (
	genericHabitat = "Various habitats depending on species"
	genericDiet    = "Varied diet including insects, seeds, fruits, and small animals"
)

// HabitatAndDiet derives habitat and diet text from the family common name.
// Unknown families get generic text, never empty strings.
func HabitatAndDiet(familyCommonName string) (habitat, diet string) {
	family := strings.ToLower(familyCommonName)
	for _, rule := range familyRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(family, keyword) {
				return rule.habitat, rule.diet
			}
		}
	}
	return genericHabitat, genericDiet
}

// EndemicDetails holds habitat, range, and conservation text for a Sri Lankan
// endemic, overriding the generic family-derived values.
type EndemicDetails struct {
	Habitat            string
	Distribution       string
	ConservationStatus string
}

// endemicMarkers gate the override: the species name must reference Sri Lanka
// before the per-group rules apply.
var endemicMarkers = []string{"sri lanka", "ceylon", "sinharaja"}

type endemicRule struct {
	keyword string
	details EndemicDetails
}

var endemicRules = []endemicRule{
	{
		keyword: "magpie",
		details: EndemicDetails{
			Habitat:            "Sinharaja Rainforest and other wet zone forests of Sri Lanka",
			Distribution:       "Endemic to Sri Lanka, primarily in Sinharaja Forest Reserve",
			ConservationStatus: "Vulnerable - Endemic species threatened by habitat loss",
		},
	},
	{
		keyword: "junglefowl",
		details: EndemicDetails{
			Habitat:            "Dense forests including Sinharaja, dry zone forests, and scrublands",
			Distribution:       "Endemic to Sri Lanka, national bird",
			ConservationStatus: "Least Concern but declining due to habitat fragmentation",
		},
	},
	{
		keyword: "whistling thrush",
		details: EndemicDetails{
			Habitat:            "Rocky streams in montane forests, Sinharaja valleys, and hill country",
			Distribution:       "Endemic to Sri Lanka's hill country and rainforests",
			ConservationStatus: "Near Threatened - Limited to specific altitudes",
		},
	},
	{
		keyword: "bulbul",
		details: EndemicDetails{
			Habitat:            "Sinharaja Rainforest canopy, wet zone forests, and forest edges",
			Distribution:       "Endemic to Sri Lanka's southwestern wet zone",
			ConservationStatus: "Vulnerable - Restricted range and habitat loss",
		},
	},
}

// EndemicOverride returns enhanced details for Sri Lankan endemic species
// recognized by name. The boolean reports whether an override applies.
func EndemicOverride(speciesName string) (EndemicDetails, bool) {
	name := strings.ToLower(speciesName)

	marked := false
	for _, marker := range endemicMarkers {
		if strings.Contains(name, marker) {
			marked = true
			break
		}
	}
	if !marked {
		return EndemicDetails{}, false
	}

	for _, rule := range endemicRules {
		if strings.Contains(name, rule.keyword) {
			return rule.details, true
		}
	}
	return EndemicDetails{}, false
}
