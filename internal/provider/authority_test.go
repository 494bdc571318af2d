// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import "testing"

func TestExtractYear(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"plain authority", "Cope, 1874", 1874},
		{"parenthesized authority", "(Osborn, 1905)", 1905},
		{"year inside citation", "A. S. Woodward. 1889. Catalogue of the fossil fishes", 1889},
		{"modern year", "Smith & Jones, 2021", 2021},
		{"pre-1700 rejected", "Anonymous, 1666", 0},
		{"far future rejected", "Placeholder, 2099", 0},
		{"page range not a year", "pp. 123-456", 0},
		{"no year", "Woodward", 0},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractYear(tt.text); got != tt.want {
				t.Errorf("ExtractYear(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractAuthor(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"single author", "Cope, 1874", "Cope"},
		{"parenthesized", "(Osborn, 1905)", "Osborn"},
		{"two authors", "Agassiz & Valenciennes, 1844", "Agassiz & Valenciennes"},
		{"no year", "Woodward", "Woodward"},
		{"year only", "1874", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractAuthor(tt.text); got != tt.want {
				t.Errorf("ExtractAuthor(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestCitationAuthor(t *testing.T) {
	tests := []struct {
		name     string
		citation string
		want     string
	}{
		{"surname first", "Newberry. 1873. The classification of our fossil fishes", "Newberry"},
		{"no period", "an unstructured citation", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CitationAuthor(tt.citation); got != tt.want {
				t.Errorf("CitationAuthor(%q) = %q, want %q", tt.citation, got, tt.want)
			}
		})
	}
}
