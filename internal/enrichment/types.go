// Package enrichment provides the species enrichment client and service,
// backed by the eBird API v2 with a static offline knowledge base behind it.
package enrichment

import "time"

// TaxonomyEntry is a single record from the eBird taxonomy.
type TaxonomyEntry struct {
	ScientificName string `json:"sciName"`
	CommonName     string `json:"comName"`
	SpeciesCode    string `json:"speciesCode"`
	Category       string `json:"category"` // species, spuh, slash, hybrid, etc.
	Order          string `json:"order"`
	FamilyComName  string `json:"familyComName"`
	FamilySciName  string `json:"familySciName"`
}

// Observation is a recent sighting record from the eBird observations feed.
type Observation struct {
	SpeciesCode     string  `json:"speciesCode"`
	CommonName      string  `json:"comName"`
	ScientificName  string  `json:"sciName"`
	LocationName    string  `json:"locName"`
	ObservationDate string  `json:"obsDt"`
	HowMany         int     `json:"howMany,omitempty"`
	Latitude        float64 `json:"lat"`
	Longitude       float64 `json:"lng"`
}

// SearchType records which name form matched during a species lookup.
type SearchType string

const (
	SearchTypeCommon     SearchType = "common"
	SearchTypeScientific SearchType = "scientific"
	SearchTypeFallback   SearchType = "fallback"
	SearchTypeUnknown    SearchType = "unknown"
)

// Config holds configuration for the enrichment client.
type Config struct {
	APIKey         string        `json:"api_key"`
	BaseURL        string        `json:"base_url"`
	CacheTTL       time.Duration `json:"cache_ttl"`
	Region         string        `json:"region"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
	ReadTimeout    time.Duration `json:"read_timeout"`
}

// DefaultConfig returns a Config with sensible defaults. The split
// connect/read timeouts keep a dead provider from stalling a request:
// connection establishment fails fast, slow responses are bounded separately.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://api.ebird.org/v2",
		CacheTTL:       24 * time.Hour, // taxonomy rarely changes
		Region:         "US",
		ConnectTimeout: 3 * time.Second,
		ReadTimeout:    5 * time.Second,
	}
}

// Observation feed query parameters.
const (
	observationDaysBack   = 7
	observationMaxResults = 5
	observationKeepCount  = 3
)

// Error is an eBird API error response body.
type Error struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func (e *Error) Error() string {
	return e.Detail
}
