package domain

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
)

// DefaultCategories seeds an empty catalogue.
var DefaultCategories = []string{
	"Home Repair",
	"Cleaning",
	"Moving",
	"Technology",
	"Tutoring",
	"Design",
	"Writing",
	"Photography",
	"Other",
}

type Category struct {
	ID          string
	Name        string
	Description string
}
