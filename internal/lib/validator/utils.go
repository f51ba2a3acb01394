package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"moviecatalog/proj/internal/domain/fields"
	"moviecatalog/proj/internal/dto"

	govalidator "github.com/go-playground/validator/v10"
)

var (
	alphaSpaceRx = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	fileNameRx   = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
)

// New returns a validator with every custom rule of the application registered.
func New() *govalidator.Validate {
	v := govalidator.New(govalidator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(fields.Date); ok {
			return d.Time
		}
		return nil
	}, fields.Date{})
	must(v.RegisterValidation("alphaspace", ValidateAlphaSpace))
	must(v.RegisterValidation("genre", ValidateGenre))
	must(v.RegisterValidation("filename", ValidateFileName))
	must(v.RegisterValidation("csvdelimiter", ValidateCSVDelimiter))
	must(v.RegisterValidation("dateformat", ValidateDateFormat))
	v.RegisterStructValidation(ValidateMovieReleaseDate, dto.MovieCreate{})
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func structType(obj any) reflect.Type {
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func getFieldName(obj any, origFieldName string) (fieldName string) {
	t := structType(obj)
	field, found := t.FieldByName(origFieldName)
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", origFieldName, t.Name()))
	}
	if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
		jsonName := strings.Split(tag, ",")[0]
		if jsonName != "" {
			return jsonName
		}
	}
	if tag := field.Tag.Get("schema"); tag != "" && tag != "-" {
		return strings.Split(tag, ",")[0]
	}
	return camelToSnake(origFieldName)
}

func camelToSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func ProcessValidationErrors(obj any, errs govalidator.ValidationErrors) map[string]string {
	processedErrors := make(map[string]string)
	for _, e := range errs {
		processedErrors[getFieldName(obj, e.StructField())] = GetErrorMsgForField(obj, e)
	}
	return processedErrors
}

func ValidateStruct(validator *govalidator.Validate, obj any) (validationErrs map[string]string) {
	if err := validator.Struct(obj); err != nil {
		validationErrs = ProcessValidationErrors(obj, err.(govalidator.ValidationErrors))
	}
	return
}

func GetErrorMsgForField(obj any, err govalidator.FieldError) (errorMsg string) {
	t := structType(obj)
	field, found := t.FieldByName(err.StructField())
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", err.StructField(), t.Name()))
	}
	errorMsg = field.Tag.Get("errorMsg")
	if errorMsg != "" && err.Tag() != "required" {
		return errorMsg
	}
	return MessageForTag(err)
}

// MessageForTag returns the default message for the rule that err failed.
func MessageForTag(err govalidator.FieldError) (errorMsg string) {
	isText := err.Kind() == reflect.String
	switch err.Tag() {
	case "required", "required_if":
		errorMsg = "This field is required"
	case "max":
		if isText {
			errorMsg = fmt.Sprintf("The maximum length is %s", err.Param())
		} else {
			errorMsg = fmt.Sprintf("The maximum value is %s", err.Param())
		}
	case "min":
		if isText {
			errorMsg = fmt.Sprintf("The minimum length is %s", err.Param())
		} else {
			errorMsg = fmt.Sprintf("The minimum value is %s", err.Param())
		}
	case "gte":
		errorMsg = fmt.Sprintf("Value should be greater than or equal to %s", err.Param())
	case "lte":
		errorMsg = fmt.Sprintf("Value should be less than or equal to %s", err.Param())
	case "lt":
		errorMsg = fmt.Sprintf("Value should be less than %s", err.Param())
	case "gt":
		errorMsg = fmt.Sprintf("Value should be greater than %s", err.Param())
	case "oneof":
		errorMsg = fmt.Sprintf("Value should be one of %s", err.Param())
	case "len":
		errorMsg = fmt.Sprintf("Length should be equal to %s", err.Param())
	case "email":
		errorMsg = "Value must be a valid email address"
	case "alphaspace":
		errorMsg = "Value can only contain letters and spaces"
	case "genre":
		errorMsg = fmt.Sprintf("Invalid genre specified. Valid options are: %s", strings.Join(fields.GenreNames(), ", "))
	case "released":
		errorMsg = "Release date of a released movie can't be in the future"
	case "unreleased":
		errorMsg = "Release date of an unreleased movie must be in the future"
	case "filename":
		errorMsg = "Value can only contain letters, numbers, underscores, dashes, and dots"
	case "csvdelimiter":
		errorMsg = "Value must be a single punctuation character"
	case "dateformat":
		errorMsg = "Value must be a valid date layout"
	default:
		errorMsg = "This field is invalid"
	}
	return
}

// CUSTOM VALIDATORS

func ValidateAlphaSpace(fl govalidator.FieldLevel) bool {
	return alphaSpaceRx.MatchString(fl.Field().String())
}

func ValidateGenre(fl govalidator.FieldLevel) bool {
	_, err := fields.ParseGenre(fl.Field().String())
	return err == nil
}

func ValidateFileName(fl govalidator.FieldLevel) bool {
	return fileNameRx.MatchString(fl.Field().String())
}

func ValidateCSVDelimiter(fl govalidator.FieldLevel) bool {
	runes := []rune(fl.Field().String())
	if len(runes) != 1 {
		return false
	}
	r := runes[0]
	return r != '"' && (unicode.IsPunct(r) || unicode.IsSymbol(r))
}

// ValidateDateFormat accepts a Go time layout if formatting today's date with it
// produces a value that parses back and that differs from the layout itself.
func ValidateDateFormat(fl govalidator.FieldLevel) bool {
	layout := fl.Field().String()
	if strings.TrimSpace(layout) == "" {
		return false
	}
	formatted := time.Now().Format(layout)
	if formatted == layout {
		return false
	}
	_, err := time.Parse(layout, formatted)
	return err == nil
}

// ValidateMovieReleaseDate requires a past-or-present release date for released
// movies and a future one for unreleased movies.
func ValidateMovieReleaseDate(sl govalidator.StructLevel) {
	movie := sl.Current().Interface().(dto.MovieCreate)
	if movie.ReleaseDate.IsZero() {
		return
	}
	today := fields.Today()
	if movie.IsReleased && movie.ReleaseDate.After(today) {
		sl.ReportError(movie.ReleaseDate, "releaseDate", "ReleaseDate", "released", "")
	}
	if !movie.IsReleased && !movie.ReleaseDate.After(today) {
		sl.ReportError(movie.ReleaseDate, "releaseDate", "ReleaseDate", "unreleased", "")
	}
}
