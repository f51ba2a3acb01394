package movies

import (
	"strconv"

	"moviecatalog/proj/internal/dto"
	"moviecatalog/proj/internal/lib/csvexport"
)

// ExportColumns maps every exportable movie field to its renderer.
func ExportColumns(dateFormat string) map[string]csvexport.Column[dto.MovieOutput] {
	return map[string]csvexport.Column[dto.MovieOutput]{
		"Id":         func(m dto.MovieOutput) string { return strconv.Itoa(m.ID) },
		"Title":      func(m dto.MovieOutput) string { return m.Title },
		"Director":   func(m dto.MovieOutput) string { return m.Director },
		"Genre":      func(m dto.MovieOutput) string { return m.Genre },
		"IsReleased": func(m dto.MovieOutput) string { return strconv.FormatBool(m.IsReleased) },
		"ReleaseDate": func(m dto.MovieOutput) string {
			if m.ReleaseDate.IsZero() {
				return ""
			}
			return m.ReleaseDate.Format(dateFormat)
		},
		"ViewCount": func(m dto.MovieOutput) string { return strconv.Itoa(m.ViewCount) },
	}
}

func NewExporter(opts csvexport.Options) (*csvexport.Exporter[dto.MovieOutput], error) {
	return csvexport.New(opts, ExportColumns(opts.DateFormat))
}
