package model

// Clinician is a bookable doctor from the fixed roster.
type Clinician struct {
	ID        string   `yaml:"id" json:"id"`
	Name      string   `yaml:"name" json:"name"`
	Specialty string   `yaml:"specialty" json:"specialty"`
	Years     int      `yaml:"years" json:"years"`
	Avatar    string   `yaml:"avatar" json:"avatar"`
	Bio       string   `yaml:"bio" json:"bio"`
	Languages []string `yaml:"languages" json:"languages"`
	Rating    float64  `yaml:"rating" json:"rating"`
}
