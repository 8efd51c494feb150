package enrichment

import (
	"context"
	"fmt"
	"strings"

	"github.com/birdscan/birdscan-go/internal/knowledge"
)

// Details is the species information document returned by name search. Field
// names match the public API response.
type Details struct {
	CommonName         string        `json:"common_name"`
	ScientificName     string        `json:"scientific_name"`
	Family             string        `json:"family"`
	Order              string        `json:"order"`
	Genus              string        `json:"genus,omitempty"`
	Habitat            string        `json:"habitat"`
	Description        string        `json:"description"`
	ConservationStatus string        `json:"conservation_status"`
	ImageURL           string        `json:"image_url"`
	Distribution       string        `json:"distribution"`
	Behavior           string        `json:"behavior"`
	Diet               string        `json:"diet"`
	Breeding           string        `json:"breeding"`
	Migration          string        `json:"migration"`
	Occurrences        []Observation `json:"occurrences"`
	SearchType         SearchType    `json:"search_type"`
	SpeciesCode        string        `json:"species_code,omitempty"`
}

// Service assembles species details and profiles from the live taxonomy,
// the habitat and diet rules, and the offline knowledge base. Provider
// failures never surface: the service degrades to cached, derived, or static
// data so the caller always receives a complete document.
type Service struct {
	client *Client
}

// NewService creates an enrichment service on top of the given client.
func NewService(client *Client) *Service {
	return &Service{client: client}
}

// SpeciesDetails builds a details document for a species name. It never
// fails; when the taxonomy lookup finds nothing the document carries the
// queried name with an empty scientific name.
func (s *Service) SpeciesDetails(ctx context.Context, name string) *Details {
	details := &Details{
		CommonName:  name,
		Occurrences: []Observation{},
		SearchType:  SearchTypeUnknown,
	}

	entry, searchType, err := s.client.FindSpecies(ctx, name)
	if err != nil {
		logger.Info("Species lookup failed, returning bare details",
			"species_name", name,
			"error", err)
		return details
	}

	details.SearchType = searchType
	details.CommonName = entry.CommonName
	details.ScientificName = entry.ScientificName
	details.Family = entry.FamilyComName
	details.Order = entry.Order
	details.ConservationStatus = entry.Category
	details.SpeciesCode = entry.SpeciesCode

	if entry.SpeciesCode != "" {
		observations, err := s.client.RecentObservations(ctx, entry.SpeciesCode)
		if err != nil {
			// Absorbed: recent sightings are decoration, not required data
			logger.Debug("Observation fetch failed",
				"species_code", entry.SpeciesCode,
				"error", err)
		} else {
			if len(observations) > observationKeepCount {
				observations = observations[:observationKeepCount]
			}
			details.Occurrences = observations
		}
	}

	details.Habitat, details.Diet = knowledge.HabitatAndDiet(entry.FamilyComName)

	if endemic, ok := knowledge.EndemicOverride(name); ok {
		details.Habitat = endemic.Habitat
		details.Distribution = endemic.Distribution
		details.ConservationStatus = endemic.ConservationStatus
	}

	if strings.Contains(strings.ToLower(entry.Category), "migratory") {
		details.Migration = "Migratory species"
	} else {
		details.Migration = "Resident species"
	}

	details.Breeding = "Breeding season varies by region and species"
	details.Description = fmt.Sprintf("A %s species in the order %s. %s. %s.",
		strings.ToLower(entry.FamilyComName), strings.ToLower(entry.Order),
		details.Habitat, details.Diet)

	if details.Distribution == "" {
		details.Distribution = "Found in various regions depending on habitat and migration patterns"
	}

	return details
}

// Search looks up species details by name for the search endpoint. When the
// live taxonomy has no answer it falls back to the offline knowledge base, so
// known species resolve without network access. The boolean reports whether
// anything was found.
func (s *Service) Search(ctx context.Context, name string) (*Details, bool) {
	details := s.SpeciesDetails(ctx, name)
	if details.ScientificName != "" {
		return details, true
	}

	profile, ok := lookupKB(name)
	if !ok {
		return nil, false
	}

	return &Details{
		CommonName:         profile.CommonName,
		ScientificName:     profile.ScientificName,
		Family:             profile.Taxonomy.Family,
		Order:              profile.Taxonomy.Order,
		Genus:              profile.Taxonomy.Genus,
		Habitat:            profile.Habitat,
		Description:        profile.PhysicalDescription,
		ConservationStatus: profile.ConservationStatus,
		ImageURL:           profile.ImageURL,
		Distribution:       profile.Distribution,
		Behavior:           profile.Behavior,
		Diet:               profile.Diet,
		Breeding:           profile.Breeding,
		Migration:          profile.Migration,
		Occurrences:        []Observation{},
		SearchType:         SearchTypeFallback,
	}, true
}

// BuildProfile assembles the full species profile attached to every
// identification. Live enrichment feeds it when available; otherwise the
// offline knowledge base does; either way the profile comes back complete.
func (s *Service) BuildProfile(ctx context.Context, species string, confidence float64, alternatives []knowledge.Alternative) *knowledge.Profile {
	var profile knowledge.Profile

	details := s.SpeciesDetails(ctx, species)
	if details.ScientificName != "" {
		profile.CommonName = details.CommonName
		profile.ScientificName = details.ScientificName
		profile.Taxonomy.Order = details.Order
		profile.Taxonomy.Family = details.Family
		profile.PhysicalDescription = details.Description
		profile.Distribution = details.Distribution
		profile.Habitat = details.Habitat
		profile.Diet = details.Diet
		profile.Breeding = details.Breeding
		profile.ConservationStatus = details.ConservationStatus
		profile.Migration = details.Migration
		profile.ImageURL = details.ImageURL

		occurrences := make([]any, 0, len(details.Occurrences))
		for _, obs := range details.Occurrences {
			occurrences = append(occurrences, obs)
		}
		profile.LocalOccurrence = occurrences
	} else if kb, ok := lookupKB(species); ok {
		logger.Info("Using offline knowledge base for profile",
			"species", species)
		profile = kb
	} else {
		profile.CommonName = species
	}

	if profile.CommonName == "" {
		profile.CommonName = species
	}
	profile.Confidence = confidence
	profile.Alternatives = alternatives
	profile.FillDefaults()

	return &profile
}

// lookupKB resolves an offline knowledge base entry, tolerating case
// differences in the queried name.
func lookupKB(name string) (knowledge.Profile, bool) {
	if profile, ok := knowledge.Lookup(name); ok {
		return profile, true
	}
	for _, candidate := range knowledge.Species() {
		if strings.EqualFold(candidate, name) {
			return knowledge.Lookup(candidate)
		}
	}
	return knowledge.Profile{}, false
}
