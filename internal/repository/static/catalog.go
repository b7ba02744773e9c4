package static

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jwalitptl/greenwell/internal/model"
	"github.com/jwalitptl/greenwell/internal/repository"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Document is the on-disk shape of the reference data.
type Document struct {
	Clinicians          []model.Clinician          `yaml:"clinicians"`
	Products            []model.Product            `yaml:"products"`
	SampleAppointments  []model.SampleAppointment  `yaml:"sample_appointments"`
	SamplePrescriptions []model.SamplePrescription `yaml:"sample_prescriptions"`
}

// Catalog is an immutable, in-memory CatalogRepository.
type Catalog struct {
	doc        Document
	clinicians map[string]int
	products   map[string]int
}

var _ repository.CatalogRepository = (*Catalog)(nil)

// NewCatalog builds the catalog shipped with the binary.
func NewCatalog() (*Catalog, error) {
	return Load(defaultCatalog)
}

// Load parses a YAML document and checks the roster invariants.
func Load(data []byte) (*Catalog, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return FromDocument(doc)
}

func FromDocument(doc Document) (*Catalog, error) {
	if len(doc.Clinicians) == 0 {
		return nil, fmt.Errorf("catalog must list at least one clinician")
	}

	c := &Catalog{
		clinicians: make(map[string]int, len(doc.Clinicians)),
		products:   make(map[string]int, len(doc.Products)),
	}

	for i, cl := range doc.Clinicians {
		if cl.ID == "" {
			return nil, fmt.Errorf("clinician %d has no id", i)
		}
		if _, dup := c.clinicians[cl.ID]; dup {
			return nil, fmt.Errorf("duplicate clinician id %q", cl.ID)
		}
		c.clinicians[cl.ID] = i
	}
	for i, p := range doc.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("product %d has no id", i)
		}
		if _, dup := c.products[p.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		c.products[p.ID] = i
	}

	c.doc = cloneDocument(doc)
	return c, nil
}

// Document returns a copy of the underlying data.
func (c *Catalog) Document() Document {
	return cloneDocument(c.doc)
}

func (c *Catalog) ListClinicians(_ context.Context) ([]model.Clinician, error) {
	return cloneClinicians(c.doc.Clinicians), nil
}

func (c *Catalog) GetClinician(_ context.Context, id string) (*model.Clinician, error) {
	i, ok := c.clinicians[id]
	if !ok {
		return nil, fmt.Errorf("clinician %q: %w", id, repository.ErrNotFound)
	}
	cl := cloneClinician(c.doc.Clinicians[i])
	return &cl, nil
}

func (c *Catalog) DefaultClinician(_ context.Context) (*model.Clinician, error) {
	cl := cloneClinician(c.doc.Clinicians[0])
	return &cl, nil
}

func (c *Catalog) ListProducts(_ context.Context) ([]model.Product, error) {
	return append([]model.Product(nil), c.doc.Products...), nil
}

func (c *Catalog) GetProduct(_ context.Context, id string) (*model.Product, error) {
	i, ok := c.products[id]
	if !ok {
		return nil, fmt.Errorf("product %q: %w", id, repository.ErrNotFound)
	}
	p := c.doc.Products[i]
	return &p, nil
}

func (c *Catalog) ListSampleAppointments(_ context.Context) ([]model.SampleAppointment, error) {
	return append([]model.SampleAppointment(nil), c.doc.SampleAppointments...), nil
}

func (c *Catalog) ListSamplePrescriptions(_ context.Context) ([]model.SamplePrescription, error) {
	return append([]model.SamplePrescription(nil), c.doc.SamplePrescriptions...), nil
}

func cloneDocument(doc Document) Document {
	return Document{
		Clinicians:          cloneClinicians(doc.Clinicians),
		Products:            append([]model.Product(nil), doc.Products...),
		SampleAppointments:  append([]model.SampleAppointment(nil), doc.SampleAppointments...),
		SamplePrescriptions: append([]model.SamplePrescription(nil), doc.SamplePrescriptions...),
	}
}

func cloneClinicians(in []model.Clinician) []model.Clinician {
	out := make([]model.Clinician, len(in))
	for i, cl := range in {
		out[i] = cloneClinician(cl)
	}
	return out
}

func cloneClinician(cl model.Clinician) model.Clinician {
	cl.Languages = append([]string(nil), cl.Languages...)
	return cl
}
