package models

const (
	DefaultPrimaryColor   = "#be185d"
	DefaultSecondaryColor = "#1e1b4b"
)

// Appearance holds the brand colours chosen in Settings.
type Appearance struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

// DefaultAppearance is what a reset restores.
func DefaultAppearance() Appearance {
	return Appearance{PrimaryColor: DefaultPrimaryColor, SecondaryColor: DefaultSecondaryColor}
}
