package service

import (
	"testing"

	"lms_progress_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestIsVisible(t *testing.T) {
	var f VisibilityFilter

	tests := []struct {
		name       string
		role       model.UserRole
		visibility string
		want       bool
	}{
		{"learner in list", model.Learner, "learner,mentor", true},
		{"mentor in list", model.Mentor, "learner,mentor", true},
		{"role not in list", model.Admin, "learner,mentor", false},
		{"empty visibility hides", model.Learner, "", false},
		{"whitespace only hides", model.Learner, "   ", false},
		{"case insensitive", model.Learner, "LEARNER", true},
		{"tokens trimmed", model.Mentor, " learner , mentor ", true},
		{"single role", model.Learner, "learner", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := &model.Subconcept{Visibility: tt.visibility}
			assert.Equal(t, tt.want, f.IsVisible(tt.role, sub))
		})
	}
}
