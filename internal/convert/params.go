package convert

import (
	"regexp"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"pagalpdf/internal/domain"
)

var (
	hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	ocrLangRe  = regexp.MustCompile(`^[a-z]{3}(\+[a-z]{3})*$`)
	// pdfcpu-style page selection: "3", "1-4", "2,5-7", "1-".
	pageRangeRe = regexp.MustCompile(`^\d+(-\d*)?(,\d+(-\d*)?)*$`)
)

// WatermarkParams are the user-supplied watermark settings.
type WatermarkParams struct {
	Text     string
	FontSize float64
	Opacity  float64
	Position string
	Color    string
}

// NewWatermarkParams returns params with the service defaults. Callers
// overwrite only the fields the request actually supplied, so an explicit
// zero is a value to validate, not a request for the default.
func NewWatermarkParams() *WatermarkParams {
	return &WatermarkParams{
		FontSize: 48,
		Opacity:  0.3,
		Position: "diagonal",
		Color:    "#808080",
	}
}

func (p *WatermarkParams) Validate() error {
	// Range checks are explicit because ozzo skips zero-valued fields,
	// which would let an explicit 0 through.
	if p.FontSize < 8 || p.FontSize > 144 {
		return &domain.ValidationError{Message: "font_size must be between 8 and 144."}
	}
	if p.Opacity < 0.05 || p.Opacity > 1 {
		return &domain.ValidationError{Message: "opacity must be between 0.05 and 1."}
	}
	return wrapValidation(validation.ValidateStruct(p,
		validation.Field(&p.Text, validation.Required, validation.Length(1, 100)),
		validation.Field(&p.Position, validation.Required, validation.In("center", "diagonal")),
		validation.Field(&p.Color, validation.Required, validation.Match(hexColorRe)),
	))
}

// Args renders the params as worker argv elements.
func (p *WatermarkParams) Args() []string {
	return []string{
		p.Text,
		strconv.FormatFloat(p.FontSize, 'f', -1, 64),
		strconv.FormatFloat(p.Opacity, 'f', -1, 64),
		p.Position,
		p.Color,
	}
}

// PasswordParams cover both protect and unlock.
type PasswordParams struct {
	Password string
}

func (p *PasswordParams) Validate() error {
	return wrapValidation(validation.ValidateStruct(p,
		validation.Field(&p.Password, validation.Required, validation.Length(1, 128)),
	))
}

func (p *PasswordParams) Args() []string { return []string{p.Password} }

// OCRParams select the recognition language, e.g. "eng" or "eng+deu".
type OCRParams struct {
	Language string
}

func (p *OCRParams) Validate() error {
	if p.Language == "" {
		p.Language = "eng"
	}
	return wrapValidation(validation.ValidateStruct(p,
		validation.Field(&p.Language, validation.Match(ocrLangRe)),
	))
}

func (p *OCRParams) Args() []string { return []string{p.Language} }

// RotateParams hold the clockwise rotation angle.
type RotateParams struct {
	Angle int
}

func (p *RotateParams) Validate() error {
	return wrapValidation(validation.ValidateStruct(p,
		validation.Field(&p.Angle, validation.Required, validation.In(90, 180, 270)),
	))
}

func (p *RotateParams) Args() []string { return []string{strconv.Itoa(p.Angle)} }

// SplitParams select the pages to keep, e.g. "1-3,7".
type SplitParams struct {
	Pages string
}

func (p *SplitParams) Validate() error {
	return wrapValidation(validation.ValidateStruct(p,
		validation.Field(&p.Pages, validation.Required, validation.Match(pageRangeRe)),
	))
}

func (p *SplitParams) Args() []string { return []string{p.Pages} }

// wrapValidation converts an ozzo validation result into the domain
// validation error so handlers map it to a 400.
func wrapValidation(err error) error {
	if err == nil {
		return nil
	}
	return &domain.ValidationError{Message: err.Error()}
}
