// ABOUTME: One page of the catalog listing endpoint.
// ABOUTME: Carries the decoded records and the cursor URL of the following page.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Page is a decoded listing response.
type Page struct {
	Count    Int        `json:"count"`
	Next     *string    `json:"next"`
	Previous *string    `json:"previous"`
	Results  []Exercise `json:"results"`
}

// DecodePage parses a raw listing response.
func DecodePage(data []byte) (*Page, error) {
	var p Page
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	return &p, nil
}

// NextURL returns the cursor of the following page, or "" when pagination is done.
func (p *Page) NextURL() string {
	if p.Next == nil {
		return ""
	}
	return strings.TrimSpace(*p.Next)
}
