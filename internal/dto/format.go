package dto

import (
	"fmt"

	"github.com/noah-isme/siakad-cli/internal/models"
)

const placeholder = "-"

// Score renders an optional score with two decimals.
func Score(v *float64) string {
	if v == nil {
		return placeholder
	}
	return fmt.Sprintf("%.2f", *v)
}

// GPA renders a grade point average; absent values print as 0.00.
func GPA(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Text dereferences an optional string.
func Text(v *string) string {
	if v == nil || *v == "" {
		return placeholder
	}
	return *v
}

// Capacity renders current/max seats, marking full courses.
func Capacity(c models.Course) string {
	out := fmt.Sprintf("%d/%d", c.CurrentEnrollment, c.MaxCapacity)
	if c.Full() {
		out += " FULL"
	}
	return out
}
