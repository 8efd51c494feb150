// Package knowledge holds the species profile model and the static knowledge
// used to fill it: field defaults, the offline fallback knowledge base, and
// the family-based habitat and diet rules.
package knowledge

import "strings"

// Taxonomy is the classical rank hierarchy for a species.
type Taxonomy struct {
	Kingdom    string   `json:"kingdom"`
	Phylum     string   `json:"phylum"`
	Class      string   `json:"class"`
	Order      string   `json:"order"`
	Family     string   `json:"family"`
	Genus      string   `json:"genus"`
	Species    string   `json:"species"`
	Subspecies []string `json:"subspecies"`
}

// Alternative is a lower-ranked species candidate attached to a profile.
type Alternative struct {
	Species    string  `json:"species"`
	Confidence float64 `json:"confidence"`
}

// Profile is the full species profile returned with every identification.
// Every string field is always populated: missing data is replaced with a
// generic default so clients never need to null-check.
//
// LocalOccurrence entries are either site name strings (from the offline
// knowledge base) or recent observation records (from live enrichment).
type Profile struct {
	CommonName           string        `json:"common_name"`
	ScientificName       string        `json:"scientific_name"`
	Taxonomy             Taxonomy      `json:"taxonomy"`
	PhysicalDescription  string        `json:"physical_description"`
	Vocalization         string        `json:"vocalization"`
	Distribution         string        `json:"distribution"`
	Habitat              string        `json:"habitat"`
	Behavior             string        `json:"behavior"`
	Diet                 string        `json:"diet"`
	Breeding             string        `json:"breeding"`
	ConservationStatus   string        `json:"conservation_status"`
	CulturalSignificance string        `json:"cultural_significance"`
	EcologicalRole       string        `json:"ecological_role"`
	SimilarSpecies       string        `json:"similar_species"`
	ObservationTips      string        `json:"observation_tips"`
	LocalOccurrence      []any         `json:"local_occurrence"`
	Migration            string        `json:"migration"`
	ImageURL             string        `json:"image_url"`
	Confidence           float64       `json:"confidence"`
	Alternatives         []Alternative `json:"alternatives"`
	References           []string      `json:"references"`
}

// Generic defaults for profile fields with no species-specific data.
const (
	DefaultPhysicalDescription  = "Medium-sized bird; plumage and markings vary by species."
	DefaultVocalization         = "Calls and songs vary by region; refer to xeno-canto or Macaulay Library for spectrograms."
	DefaultDistribution         = "Global/Regional presence varies; consult range maps for specifics."
	DefaultHabitat              = "Forests, grasslands, wetlands, and urban areas depending on species."
	DefaultBehavior             = "Foraging, perching, territorial displays typical for the family."
	DefaultDiet                 = "Varied diet shifting seasonally (insects, seeds, fruits)."
	DefaultBreeding             = "Breeding season varies by latitude; typical clutch 2–5 eggs; biparental care common."
	DefaultConservationStatus   = "Not evaluated / varies by region."
	DefaultCulturalSignificance = "Appears in local folklore and culture; symbolic meanings vary."
	DefaultEcologicalRole       = "Insect control, seed dispersal, pollination; prey for higher trophic levels."
	DefaultSimilarSpecies       = "Compare size, bill shape, wing bars, eye-rings, and voice with lookalikes."
	DefaultObservationTips      = "Observe at dawn/dusk; use binoculars; listen for calls in preferred habitat."
	DefaultMigration            = "Resident or migratory depending on population and latitude."
)

// DefaultReferences returns the standard reference list for enriched profiles.
func DefaultReferences() []string {
	return []string{
		"eBird taxonomy and species info",
		"IUCN Red List",
		"GBIF occurrences",
		"Cornell Lab – Birds of the World",
	}
}

// FillDefaults replaces every empty field with its generic default and derives
// the species epithet from the scientific name when missing. Call it last when
// assembling a profile; afterwards the profile is guaranteed complete.
func (p *Profile) FillDefaults() {
	if p.Taxonomy.Kingdom == "" {
		p.Taxonomy.Kingdom = "Animalia"
	}
	if p.Taxonomy.Phylum == "" {
		p.Taxonomy.Phylum = "Chordata"
	}
	if p.Taxonomy.Class == "" {
		p.Taxonomy.Class = "Aves"
	}
	if p.Taxonomy.Species == "" {
		if _, epithet, found := strings.Cut(p.ScientificName, " "); found {
			p.Taxonomy.Species = epithet
		}
	}
	if p.Taxonomy.Subspecies == nil {
		p.Taxonomy.Subspecies = []string{}
	}

	fillString(&p.PhysicalDescription, DefaultPhysicalDescription)
	fillString(&p.Vocalization, DefaultVocalization)
	fillString(&p.Distribution, DefaultDistribution)
	fillString(&p.Habitat, DefaultHabitat)
	fillString(&p.Behavior, DefaultBehavior)
	fillString(&p.Diet, DefaultDiet)
	fillString(&p.Breeding, DefaultBreeding)
	fillString(&p.ConservationStatus, DefaultConservationStatus)
	fillString(&p.CulturalSignificance, DefaultCulturalSignificance)
	fillString(&p.EcologicalRole, DefaultEcologicalRole)
	fillString(&p.SimilarSpecies, DefaultSimilarSpecies)
	fillString(&p.ObservationTips, DefaultObservationTips)
	fillString(&p.Migration, DefaultMigration)

	if p.LocalOccurrence == nil {
		p.LocalOccurrence = []any{}
	}
	if p.Alternatives == nil {
		p.Alternatives = []Alternative{}
	}
	if len(p.References) == 0 {
		p.References = DefaultReferences()
	}
}

func fillString(field *string, fallback string) {
	if *field == "" {
		*field = fallback
	}
}
