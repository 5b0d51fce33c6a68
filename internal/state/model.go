package state

import "fmt"

// Hero is one coloring template offered in the gallery.
type Hero struct {
	ID           int    `toml:"id" json:"id"`
	Name         string `toml:"name" json:"name"`
	TemplatePath string `toml:"template" json:"template"`
	Premium      bool   `toml:"premium" json:"premium"`

	// Missing is set when the template file is not present under the
	// assets directory. The studio still opens; the surface reports Failed.
	Missing bool `toml:"-" json:"-"`
}

// Swatch is a named palette color.
type Swatch struct {
	Name string `toml:"name"`
	Hex  string `toml:"hex"`
}

// DefaultPalette is the nine-color palette of the studio.
var DefaultPalette = []Swatch{
	{"Red", "#FF0000"},
	{"Blue", "#0000FF"},
	{"Yellow", "#FFFF00"},
	{"Green", "#00FF00"},
	{"Orange", "#FF8800"},
	{"Purple", "#8800FF"},
	{"Black", "#000000"},
	{"Pink", "#FF69B4"},
	{"Brown", "#8B4513"},
}

// FreeHeroes is how many heroes are playable without an unlock.
const FreeHeroes = 6

// DefaultHeroes returns the twelve bundled heroes. Heroes past FreeHeroes
// are premium.
func DefaultHeroes() []Hero {
	heroes := make([]Hero, 0, 12)
	for i := 1; i <= 12; i++ {
		heroes = append(heroes, Hero{
			ID:           i,
			Name:         fmt.Sprintf("HERO %d", i),
			TemplatePath: TemplateFile(i),
			Premium:      i > FreeHeroes,
		})
	}
	return heroes
}

// TemplateFile is the conventional template file name of hero id.
func TemplateFile(id int) string {
	return fmt.Sprintf("hero-%d-template.png", id)
}
