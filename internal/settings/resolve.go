package settings

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/kirlent/internal/foundation/errors"
)

// Settings is the typed, validated view of resolved option values. It is
// read once when a translator is constructed and never changed afterwards.
type Settings struct {
	Title       string
	Language    string `flag:"--language" validate:"required,bcp47_language_tag"`
	InputFormat string `flag:"--input-format" validate:"oneof=auto xml markdown"`

	Template           string
	Stylesheets        []string
	StylesheetPaths    []string
	StylesheetDirs     []string
	EmbedStylesheet    bool
	InitialHeaderLevel int `flag:"--initial-header-level" validate:"min=1,max=6"`
	TableStyle         []string

	SlideSize           string  `flag:"--slide-size" validate:"omitempty,slidesize"`
	FontSize            int     `flag:"--font-size" validate:"gte=0"`
	ImageScale          string  `flag:"--image-scale" validate:"omitempty,imagescale"`
	EmphasisAnnotations bool
	TransitionDuration  int     `flag:"--transition-duration" validate:"gte=0"`
	MinScale            float64 `flag:"--min-scale" validate:"gte=0"`
	MaxScale            float64 `flag:"--max-scale" validate:"gtefield=MinScale"`
	Transition          string  `flag:"--transition" validate:"omitempty,oneof=none fade slide convex concave zoom"`
	CenterVertical      bool

	// Source and Destination are set by the publisher, not by options.
	Source      string
	Destination string
}

var structValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if flag := fld.Tag.Get("flag"); flag != "" {
			return flag
		}
		return fld.Name
	})
	_ = v.RegisterValidation("slidesize", validSlideSize)
	_ = v.RegisterValidation("imagescale", validImageScale)
	return v
}

func validSlideSize(fl validator.FieldLevel) bool {
	_, _, err := ParseSlideSize(fl.Field().String())
	return err == nil
}

func validImageScale(fl validator.FieldLevel) bool {
	_, err := ParseImageScale(fl.Field().String())
	return err == nil
}

// Resolve builds validated Settings from option values.
func Resolve(v Values) (*Settings, error) {
	s := &Settings{
		Title:               v.String("title"),
		Language:            v.String("language_code"),
		InputFormat:         v.String("input_format"),
		Template:            v.String("template"),
		Stylesheets:         v.List("stylesheet"),
		StylesheetPaths:     v.List("stylesheet_path"),
		StylesheetDirs:      v.List("stylesheet_dirs"),
		EmbedStylesheet:     v.Bool("embed_stylesheet"),
		InitialHeaderLevel:  v.Int("initial_header_level"),
		TableStyle:          v.List("table_style"),
		SlideSize:           v.String("slide_size"),
		FontSize:            v.Int("font_size"),
		ImageScale:          v.String("image_scale"),
		EmphasisAnnotations: v.Bool("emphasis_annotations"),
		TransitionDuration:  v.Int("transition_duration"),
		MinScale:            v.Float("min_scale"),
		MaxScale:            v.Float("max_scale"),
		Transition:          v.String("transition"),
		CenterVertical:      v.Bool("center_vertical"),
	}
	if s.InputFormat == "" {
		s.InputFormat = "auto"
	}
	if s.InitialHeaderLevel == 0 {
		s.InitialHeaderLevel = 2
	}
	if s.Language == "" {
		s.Language = "en"
	}

	if err := structValidator.Struct(s); err != nil {
		return nil, configErrorFrom(err)
	}
	if tag, err := language.Parse(s.Language); err == nil {
		s.Language = tag.String()
	}
	return s, nil
}

func configErrorFrom(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.WrapError(err, errors.CategoryConfig, "invalid settings").Build()
	}
	fe := verrs[0]
	reason := fe.Tag()
	if fe.Param() != "" {
		reason += "=" + fe.Param()
	}
	msg := fmt.Sprintf("invalid value for %s: %v (must satisfy %s)", fe.Field(), fe.Value(), reason)
	if len(verrs) > 1 {
		fields := make([]string, 0, len(verrs))
		for _, e := range verrs {
			fields = append(fields, e.Field())
		}
		return errors.ConfigError(msg).WithContext("options", strings.Join(fields, ",")).Build()
	}
	return errors.ConfigError(msg).WithContext("option", fe.Field()).Build()
}
