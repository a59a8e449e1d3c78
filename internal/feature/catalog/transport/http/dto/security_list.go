// Package dto defines data transfer objects for the catalog HTTP API.
package dto

// SecurityItem represents a catalog entry in the API response.
type SecurityItem struct {
	ISIN string `json:"isin"`
	Name string `json:"name"`
}
