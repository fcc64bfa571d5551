package validation_test

import (
	"encoding/json"
	"strings"
	"testing"

	"contact-mailer-backend/internal/domain"
	"contact-mailer-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestContactSubmissionValidation(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		sub       domain.ContactSubmission
		wantField string
		wantType  string
	}{
		{
			name:      "missing name",
			sub:       domain.ContactSubmission{Email: "ada@example.com"},
			wantField: "name",
			wantType:  "required",
		},
		{
			name:      "missing email",
			sub:       domain.ContactSubmission{Name: "Ada"},
			wantField: "email",
			wantType:  "required",
		},
		{
			name:      "malformed email",
			sub:       domain.ContactSubmission{Name: "Ada", Email: "not-an-email"},
			wantField: "email",
			wantType:  "email",
		},
		{
			name:      "name too long",
			sub:       domain.ContactSubmission{Name: strings.Repeat("a", 101), Email: "ada@example.com"},
			wantField: "name",
			wantType:  "max",
		},
		{
			name: "company too long",
			sub: domain.ContactSubmission{
				Name: "Ada", Email: "ada@example.com", Company: strPtr(strings.Repeat("c", 201)),
			},
			wantField: "company",
			wantType:  "max",
		},
		{
			name: "role too long",
			sub: domain.ContactSubmission{
				Name: "Ada", Email: "ada@example.com", Role: strPtr(strings.Repeat("r", 101)),
			},
			wantField: "role",
			wantType:  "max",
		},
		{
			name: "interest too long",
			sub: domain.ContactSubmission{
				Name: "Ada", Email: "ada@example.com", Interest: strPtr(strings.Repeat("i", 101)),
			},
			wantField: "interest",
			wantType:  "max",
		},
		{
			name: "deadline too long",
			sub: domain.ContactSubmission{
				Name: "Ada", Email: "ada@example.com", Deadline: strPtr(strings.Repeat("d", 101)),
			},
			wantField: "deadline",
			wantType:  "max",
		},
		{
			name: "message too long",
			sub: domain.ContactSubmission{
				Name: "Ada", Email: "ada@example.com", Message: strPtr(strings.Repeat("m", 5001)),
			},
			wantField: "message",
			wantType:  "max",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(&tt.sub)
			require.Error(t, err)

			fields := validation.FieldErrors(err)
			require.NotEmpty(t, fields)
			assert.Equal(t, []string{"body", tt.wantField}, fields[0].Loc)
			assert.Equal(t, tt.wantType, fields[0].Type)
		})
	}
}

func TestContactSubmissionValidation_Bounds(t *testing.T) {
	v := validation.New()

	sub := domain.ContactSubmission{
		Name:     strings.Repeat("a", 100),
		Email:    "ada@example.com",
		Company:  strPtr(strings.Repeat("c", 200)),
		Role:     strPtr(strings.Repeat("r", 100)),
		Interest: strPtr(strings.Repeat("i", 100)),
		Message:  strPtr(strings.Repeat("m", 5000)),
		Deadline: strPtr(strings.Repeat("d", 100)),
	}
	assert.NoError(t, v.Struct(&sub))

	t.Run("limits count characters not bytes", func(t *testing.T) {
		sub := domain.ContactSubmission{Name: strings.Repeat("é", 100), Email: "ada@example.com"}
		assert.NoError(t, v.Struct(&sub))
	})

	t.Run("empty optional fields are accepted", func(t *testing.T) {
		sub := domain.ContactSubmission{Name: "Ada", Email: "ada@example.com", Company: strPtr("")}
		assert.NoError(t, v.Struct(&sub))
	})
}

func TestFieldErrors_MultipleFields(t *testing.T) {
	v := validation.New()
	err := v.Struct(&domain.ContactSubmission{})
	require.Error(t, err)

	fields := validation.FieldErrors(err)
	require.Len(t, fields, 2)
	assert.Equal(t, "name", fields[0].Loc[1])
	assert.Equal(t, "email", fields[1].Loc[1])
}

func TestFieldErrors_JSON(t *testing.T) {
	t.Run("type mismatch names the field", func(t *testing.T) {
		var sub domain.ContactSubmission
		err := json.Unmarshal([]byte(`{"name":42}`), &sub)
		require.Error(t, err)

		fields := validation.FieldErrors(err)
		require.Len(t, fields, 1)
		assert.Equal(t, []string{"body", "name"}, fields[0].Loc)
		assert.Equal(t, "type_error", fields[0].Type)
	})

	t.Run("syntax error reports the body", func(t *testing.T) {
		var sub domain.ContactSubmission
		err := json.Unmarshal([]byte(`{invalid`), &sub)
		require.Error(t, err)

		fields := validation.FieldErrors(err)
		require.Len(t, fields, 1)
		assert.Equal(t, []string{"body"}, fields[0].Loc)
		assert.Equal(t, "json_invalid", fields[0].Type)
	})
}
