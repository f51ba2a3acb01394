package validator

import (
	"testing"

	"moviecatalog/proj/internal/domain/fields"
	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/dto"

	"github.com/stretchr/testify/assert"
)

func validMovie() dto.MovieCreate {
	return dto.MovieCreate{
		Title:       "Dune",
		Director:    "Denis Villeneuve",
		Genre:       "SciFi",
		IsReleased:  true,
		ReleaseDate: fields.NewDate(2021, 10, 22),
	}
}

func TestValidateMovieCreate(t *testing.T) {
	v := New()
	tomorrow := fields.DateOf(fields.Today().AddDate(0, 0, 1))
	tests := []struct {
		name   string
		modify func(m *dto.MovieCreate)
		errors map[string]string
	}{
		{"valid", func(m *dto.MovieCreate) {}, nil},
		{"released today", func(m *dto.MovieCreate) { m.ReleaseDate = fields.Today() }, nil},
		{"unreleased tomorrow", func(m *dto.MovieCreate) {
			m.IsReleased = false
			m.ReleaseDate = tomorrow
		}, nil},
		{"released tomorrow", func(m *dto.MovieCreate) { m.ReleaseDate = tomorrow }, map[string]string{
			"releaseDate": "Release date of a released movie can't be in the future",
		}},
		{"unreleased today", func(m *dto.MovieCreate) {
			m.IsReleased = false
			m.ReleaseDate = fields.Today()
		}, map[string]string{
			"releaseDate": "Release date of an unreleased movie must be in the future",
		}},
		{"missing title", func(m *dto.MovieCreate) { m.Title = "" }, map[string]string{
			"title": "This field is required",
		}},
		{"director with digits", func(m *dto.MovieCreate) { m.Director = "HAL 9000" }, map[string]string{
			"director": "Director's name can only contain letters",
		}},
		{"missing director keeps required message", func(m *dto.MovieCreate) { m.Director = "" }, map[string]string{
			"director": "This field is required",
		}},
		{"missing release date", func(m *dto.MovieCreate) { m.ReleaseDate = fields.Date{} }, map[string]string{
			"releaseDate": "This field is required",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMovie()
			tt.modify(&m)
			assert.Equal(t, tt.errors, ValidateStruct(v, m))
		})
	}
}

func TestValidateGenreMessage(t *testing.T) {
	m := validMovie()
	m.Genre = "Western"
	errs := ValidateStruct(New(), m)
	assert.Contains(t, errs["genre"], "Invalid genre specified")
	assert.Contains(t, errs["genre"], "SciFi")
}

func TestValidateUserCreate(t *testing.T) {
	v := New()
	assert.Nil(t, ValidateStruct(v, dto.UserCreate{Name: "Alice", Email: "alice@example.com"}))
	assert.Equal(t, map[string]string{
		"name":  "The minimum length is 4",
		"email": "Value must be a valid email address",
	}, ValidateStruct(v, dto.UserCreate{Name: "Bob", Email: "bob"}))
}

func TestValidateFiltersUsesSchemaNames(t *testing.T) {
	errs := ValidateStruct(New(), &filters.Filters{Page: 0, PageSize: 101})
	assert.Equal(t, map[string]string{"page_size": "Value should be less than or equal to 100"}, errs)
}

func TestCustomRules(t *testing.T) {
	v := New()
	type opts struct {
		FileName   string `validate:"filename"`
		Delimiter  string `validate:"csvdelimiter"`
		DateFormat string `validate:"dateformat"`
	}
	tests := []struct {
		name  string
		opts  opts
		valid bool
	}{
		{"valid", opts{"movies_2024-01.csv", ";", "02.01.2006"}, true},
		{"pipe delimiter", opts{"movies.csv", "|", "2006-01-02"}, true},
		{"path in file name", opts{"../movies.csv", ",", "2006-01-02"}, false},
		{"space in file name", opts{"my movies.csv", ",", "2006-01-02"}, false},
		{"letter delimiter", opts{"movies.csv", "a", "2006-01-02"}, false},
		{"quote delimiter", opts{"movies.csv", `"`, "2006-01-02"}, false},
		{"long delimiter", opts{"movies.csv", ",,", "2006-01-02"}, false},
		{"literal date format", opts{"movies.csv", ",", "date"}, false},
		{"blank date format", opts{"movies.csv", ",", " "}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.opts)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
