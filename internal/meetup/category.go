package meetup

import "strings"

// Category is one of the five fixed event categories used by the site.
type Category struct {
	Style string
	Name  string
}

// Categorize maps an event onto a category by case-insensitive substring
// tests, first match wins. Description rules run before title rules
// except for the book/career club pair, which outrank the career-talk
// description rule. Everything else is a tech talk.
func Categorize(description, title string) Category {
	d := strings.ToLower(description)
	t := strings.ToLower(title)

	switch {
	case strings.Contains(d, "coding club"):
		return Category{Style: "coding-club", Name: "Coding Club"}
	case strings.Contains(d, "writing club"):
		return Category{Style: "writing-club", Name: "Writing Club"}
	case strings.Contains(t, "book club"):
		return Category{Style: "book-club", Name: "Book Club"}
	case strings.Contains(t, "career club"):
		return Category{Style: "career-club", Name: "Career Club"}
	case strings.Contains(d, "career talk"):
		return Category{Style: "career-talk", Name: "Career Talk"}
	}
	return Category{Style: "tech-talk", Name: "Tech Talk"}
}
