package model

type Product struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
	THC  string `yaml:"thc" json:"thc"`
	CBD  string `yaml:"cbd" json:"cbd"`
	// Price in whole euros.
	Price int `yaml:"price" json:"price"`
}
