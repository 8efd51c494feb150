package knowledge

// fallbackKB is the static offline knowledge base. It covers two common North
// American species plus the Sinharaja rainforest endemics that live enrichment
// sources cover poorly. Entries are full profile templates; confidence and
// alternatives are set by the caller.
var fallbackKB = map[string]Profile{
	"Bald Eagle": {
		CommonName:     "Bald Eagle",
		ScientificName: "Haliaeetus leucocephalus",
		Taxonomy: Taxonomy{
			Order:   "Accipitriformes",
			Family:  "Accipitridae",
			Genus:   "Haliaeetus",
			Species: "leucocephalus",
		},
		PhysicalDescription:  "Large sea eagle; white head/tail (adult), dark brown body, massive yellow bill; juveniles mottled.",
		Vocalization:         "High-pitched whistles and chatters; not the Hollywood 'eagle scream'.",
		Distribution:         "North America: Alaska, Canada, contiguous U.S., northern Mexico; near large water bodies.",
		Habitat:              "Coasts, rivers, lakes, reservoirs with large trees or cliffs for nesting.",
		Behavior:             "Soaring, perch-hunting, kleptoparasitism; territorial during breeding.",
		Diet:                 "Fish primarily; also waterfowl, mammals, carrion.",
		Breeding:             "Massive stick nests in trees/cliffs; 1–3 eggs; biparental incubation ~35 days.",
		ConservationStatus:   "IUCN Least Concern; recovered from DDT-era declines.",
		CulturalSignificance: "National symbol of the U.S.; featured in emblems and folklore.",
		EcologicalRole:       "Top predator/scavenger; influences fish/waterfowl populations.",
		SimilarSpecies:       "Golden Eagle (no white head/tail; feathered legs), large buteos over water.",
		ObservationTips:      "Scan shorelines for perched birds; look for huge stick nests near water.",
		Migration:            "Partial migrant: northern breeders move south in winter; southern birds resident.",
		References:           []string{"eBird", "IUCN", "GBIF", "Cornell Lab"},
	},
	"American Robin": {
		CommonName:     "American Robin",
		ScientificName: "Turdus migratorius",
		Taxonomy: Taxonomy{
			Order:   "Passeriformes",
			Family:  "Turdidae",
			Genus:   "Turdus",
			Species: "migratorius",
		},
		PhysicalDescription:  "Gray-brown thrush with orange breast; white eye arcs; females duller.",
		Vocalization:         "Cheerily-cherry; variable caroling at dawn and dusk.",
		Distribution:         "North America; widespread in cities, suburbs, forests, and parks.",
		Habitat:              "Lawns, open woodlands, gardens, edges; ground-foraging areas.",
		Behavior:             "Ground foraging for worms; conspicuous hopping; territorial singing.",
		Diet:                 "Earthworms and insects; fruits/berries in fall-winter.",
		Breeding:             "Cup nests on ledges/trees; 3–4 eggs; multiple broods possible.",
		ConservationStatus:   "Least Concern; common and adaptable.",
		CulturalSignificance: "Harbinger of spring in North America.",
		EcologicalRole:       "Seed disperser; insect control.",
		SimilarSpecies:       "Varied Thrush (wing bars), Eastern/Spotted Towhee (different bill/shape).",
		ObservationTips:      "Look for foraging on lawns; listen for caroling at dawn.",
		Migration:            "Short-distance migrant; northern breeders move south/west in winter.",
		References:           []string{"eBird", "GBIF", "Cornell Lab"},
	},
	"Sri Lanka Blue Magpie": {
		CommonName:     "Sri Lanka Blue Magpie",
		ScientificName: "Urocissa ornata",
		Taxonomy: Taxonomy{
			Order:   "Passeriformes",
			Family:  "Corvidae (Crows, Jays, and Magpies)",
			Genus:   "Urocissa",
			Species: "ornata",
		},
		PhysicalDescription:  "Striking blue and white corvid with long graduated tail; bright blue wings and back, white head and underparts, coral-red bill and legs.",
		Vocalization:         "Loud harsh calls, chattering notes, and melodious whistles. Often vocal in flocks.",
		Distribution:         "Endemic to Sri Lanka; restricted to wet zone forests including Sinharaja Forest Reserve.",
		Habitat:              "Primary and secondary rainforests, especially Sinharaja Forest Reserve. Dense canopy of wet zone forests from sea level to 1200m elevation.",
		Behavior:             "Highly social; moves in small flocks of 6-10 birds. Arboreal, rarely descends to ground. Intelligent and curious.",
		Diet:                 "Omnivorous - fruits, insects, small vertebrates, eggs, and nestlings of other birds.",
		Breeding:             "Builds stick nest in tree fork; 3-5 eggs; breeds March-June during southwest monsoon.",
		ConservationStatus:   "Vulnerable (IUCN Red List). Endemic species threatened by deforestation and habitat fragmentation.",
		CulturalSignificance: "National bird candidate of Sri Lanka; symbol of the island's unique biodiversity.",
		EcologicalRole:       "Seed disperser for large-seeded rainforest trees; maintains forest ecosystem health.",
		SimilarSpecies:       "No similar species in Sri Lanka - distinctive blue and white coloration is unique.",
		ObservationTips:      "Listen for loud calls in forest canopy. Best seen in Sinharaja Forest Reserve early morning. Follows mixed feeding flocks.",
		LocalOccurrence:      []any{"Sinharaja Forest Reserve", "Kanneliya Forest", "Knuckles Range", "Peak Wilderness"},
		Migration:            "Non-migratory resident endemic to Sri Lanka.",
		References:           []string{"BirdLife International", "Endemic Birds of Sri Lanka", "Sinharaja Forest Research"},
	},
	"Sri Lanka Junglefowl": {
		CommonName:     "Sri Lanka Junglefowl",
		ScientificName: "Gallus lafayettii",
		Taxonomy: Taxonomy{
			Order:   "Galliformes",
			Family:  "Phasianidae (Pheasants, Grouse, and Allies)",
			Genus:   "Gallus",
			Species: "lafayettii",
		},
		PhysicalDescription:  "National bird of Sri Lanka. Males: golden-orange neck hackles with dark centers, red comb and wattles, long curved black tail. Females: mottled brown.",
		Vocalization:         "Characteristic crowing different from domestic roosters - more musical and prolonged. Dawn and dusk choruses.",
		Distribution:         "Endemic to Sri Lanka. Found throughout the island in suitable forest habitat.",
		Habitat:              "Dense forests including Sinharaja, dry zone forests, scrublands, and forest edges. From sea level to 1800m elevation.",
		Behavior:             "Secretive and elusive. Forages on ground, scratching leaf litter. Strong flier despite terrestrial habits.",
		Diet:                 "Seeds, fruits, insects, small reptiles, and plant shoots. Ground-foraging omnivore.",
		Breeding:             "Ground nest hidden in dense vegetation; 2-4 eggs; extended breeding season.",
		ConservationStatus:   "Least Concern but declining due to habitat loss and hybridization with domestic chickens.",
		CulturalSignificance: "National bird of Sri Lanka since 1979. Featured on currency and official emblems.",
		EcologicalRole:       "Seed dispersal, insect control, maintains forest floor ecosystem balance.",
		SimilarSpecies:       "Domestic chicken hybrids occur; pure wild birds distinguished by plumage details and behavior.",
		ObservationTips:      "Very secretive. Best chance in Sinharaja Forest Reserve at dawn. Listen for distinctive crow calls.",
		LocalOccurrence:      []any{"Sinharaja Forest Reserve", "Yala National Park", "Wilpattu National Park", "Knuckles Range"},
		Migration:            "Non-migratory resident endemic.",
		References:           []string{"BirdLife International", "Sri Lanka National Bird", "Forest Department Sri Lanka"},
	},
	"Red-faced Malkoha": {
		CommonName:     "Red-faced Malkoha",
		ScientificName: "Phaenicophaeus pyrrhocephalus",
		Taxonomy: Taxonomy{
			Order:   "Cuculiformes",
			Family:  "Cuculidae (Cuckoos)",
			Genus:   "Phaenicophaeus",
			Species: "pyrrhocephalus",
		},
		PhysicalDescription:  "Large cuckoo with distinctive red face and bill, dark green upperparts, whitish underparts, long graduated tail with white tips.",
		Vocalization:         "Deep hollow hooting calls, often in duet. Resonant 'whoop-whoop-whoop' notes carrying through forest.",
		Distribution:         "Endemic to Sri Lanka; throughout the island's forest areas.",
		Habitat:              "Dense forests including Sinharaja rainforest, dry zone forests, forest edges and gallery forests. Sea level to 1500m.",
		Behavior:             "Usually in pairs. Skulking habits, stays in dense foliage. Non-parasitic cuckoo that builds own nest.",
		Diet:                 "Insects, caterpillars, small reptiles, and occasionally fruits. Gleans from foliage and branches.",
		Breeding:             "Builds stick nest in tree fork; 2-3 eggs; both parents incubate and care for young.",
		ConservationStatus:   "Least Concern but sensitive to forest fragmentation.",
		CulturalSignificance: "Important species for birdwatching tourism in Sri Lanka.",
		EcologicalRole:       "Controls insect populations, particularly caterpillars that damage forest vegetation.",
		SimilarSpecies:       "Chestnut-winged Cuckoo (migrant) lacks red face; smaller size distinguishes from other malkohas.",
		ObservationTips:      "Listen for distinctive hooting calls. Best found in Sinharaja Forest Reserve and other primary forests.",
		LocalOccurrence:      []any{"Sinharaja Forest Reserve", "Knuckles Range", "Kanneliya Forest", "Bodhinagala Forest"},
		Migration:            "Non-migratory resident endemic.",
		References:           []string{"Endemic Birds of Sri Lanka", "Cuckoos of South Asia", "Sinharaja Biodiversity"},
	},
}

// Lookup returns a copy of the offline knowledge base entry for the given
// common name. The match is exact, as classifier output uses the same names.
func Lookup(commonName string) (Profile, bool) {
	profile, ok := fallbackKB[commonName]
	if !ok {
		return Profile{}, false
	}
	if profile.LocalOccurrence != nil {
		profile.LocalOccurrence = append([]any(nil), profile.LocalOccurrence...)
	}
	profile.References = append([]string(nil), profile.References...)
	return profile, true
}

// Species returns the common names covered by the offline knowledge base.
func Species() []string {
	names := make([]string, 0, len(fallbackKB))
	for name := range fallbackKB {
		names = append(names, name)
	}
	return names
}
