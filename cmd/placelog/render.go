package main

import (
	"fmt"
	"io"
	"strings"

	"placelog/internal/app"
	"placelog/internal/domain"
)

// render prints the shareable document followed by the terminal-only extras.
func render(w io.Writer, s domain.Session) {
	doc := strings.TrimRight(app.Document(s), "\n")
	fmt.Fprintln(w, doc)

	if s.Place != nil {
		if s.Place.Rating != nil {
			fmt.Fprintf(w, "\nRating: %g\n", *s.Place.Rating)
		}
		fmt.Fprintf(w, "Map: %s\n", s.Place.MapsURL())
		for _, u := range s.Place.PhotoURLs {
			fmt.Fprintf(w, "Photo: %s\n", u)
		}
	}
	if s.FewReviews {
		fmt.Fprintln(w, "Note: fewer than 3 reviews were available.")
	}
	if s.Suggestions != nil {
		fmt.Fprintln(w, "\n[Similar places]")
		if s.Suggestions.Usable() {
			fmt.Fprintln(w, s.Suggestions.Text)
		} else {
			fmt.Fprintln(w, app.SuggestionsUnavailable)
		}
	}
	if s.Share != nil {
		if s.Share.URL != "" {
			fmt.Fprintf(w, "\nShared: %s\n", s.Share.URL)
		} else {
			fmt.Fprintf(w, "\nShare failed: %s\n", s.Share.Error)
		}
	}
}
