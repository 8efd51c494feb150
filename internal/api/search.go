package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/birdscan/birdscan-go/internal/enrichment"
)

// initSearchRoutes registers the species search endpoint.
func (c *Controller) initSearchRoutes() {
	c.Echo.GET("/search-bird", c.SearchBird)
}

// searchResponse is the successful species search body.
type searchResponse struct {
	Message     string              `json:"message"`
	BirdDetails *enrichment.Details `json:"bird_details"`
}

// SearchBird looks up species details by common or scientific name.
func (c *Controller) SearchBird(ctx echo.Context) error {
	name := ctx.QueryParam("name")
	if name == "" {
		return c.HandleError(ctx, nil,
			`Please provide a bird name in the "name" query parameter.`, http.StatusBadRequest)
	}

	details, found := c.Searcher.Search(ctx.Request().Context(), name)
	if !found {
		return c.HandleError(ctx, nil,
			fmt.Sprintf("No information found for %q.", name), http.StatusNotFound)
	}

	var message string
	if details.SearchType == enrichment.SearchTypeScientific {
		message = fmt.Sprintf("Found common name for scientific name %q: %s", name, details.CommonName)
	} else {
		message = fmt.Sprintf("Detailed information found for %q.", name)
	}

	return ctx.JSON(http.StatusOK, &searchResponse{
		Message:     message,
		BirdDetails: details,
	})
}
