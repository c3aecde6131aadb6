package estimate

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"workshop/internal/domain"
	"workshop/internal/textnorm"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Material is one priced material family.
type Material struct {
	Name       string   `yaml:"name"`
	Keywords   []string `yaml:"keywords"`
	RatePerM3  float64  `yaml:"rate_per_m3"`
	Density    float64  `yaml:"density"`
	Compatible []string `yaml:"compatible"`
}

// Catalog holds every pricing constant used by the estimator.
type Catalog struct {
	DefaultRatePerM3  float64                   `yaml:"default_rate_per_m3"`
	DefaultDensity    float64                   `yaml:"default_density"`
	DefaultCompatible []string                  `yaml:"default_compatible"`
	Materials         []Material                `yaml:"materials"`
	HingeCosts        map[domain.Hinge]float64  `yaml:"hinge_costs"`
	SlideCosts        map[domain.Slide]float64  `yaml:"slide_costs"`
	FinishFactors     map[domain.Finish]float64 `yaml:"finish_factors"`
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("estimate: built-in catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a YAML catalog from path. An empty path yields the
// built-in catalog.
func LoadCatalog(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("estimate: read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("estimate: decode catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	for i := range c.Materials {
		for j, kw := range c.Materials[i].Keywords {
			c.Materials[i].Keywords[j] = textnorm.Fold(kw)
		}
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if c.DefaultRatePerM3 <= 0 {
		return errors.New("estimate: default_rate_per_m3 must be positive")
	}
	if c.DefaultDensity <= 0 {
		return errors.New("estimate: default_density must be positive")
	}
	for _, m := range c.Materials {
		if len(m.Keywords) == 0 {
			return fmt.Errorf("estimate: material %q has no keywords", m.Name)
		}
		if m.RatePerM3 < 0 || m.Density < 0 {
			return fmt.Errorf("estimate: material %q has a negative value", m.Name)
		}
	}
	for _, h := range []domain.Hinge{domain.HingeStandard, domain.HingeSoftClose, domain.HingeConcealed} {
		if c.HingeCosts[h] <= 0 {
			return fmt.Errorf("estimate: hinge cost %q must be positive", h)
		}
	}
	for _, s := range []domain.Slide{domain.SlideStandard, domain.SlideTelescopic, domain.SlideSoftClose} {
		if c.SlideCosts[s] <= 0 {
			return fmt.Errorf("estimate: slide cost %q must be positive", s)
		}
	}
	for _, f := range []domain.Finish{domain.FinishMatte, domain.FinishGlossy, domain.FinishTextured} {
		if c.FinishFactors[f] < 1 {
			return fmt.Errorf("estimate: finish factor %q must be at least 1", f)
		}
	}
	return nil
}

// lookup returns the first material whose keyword occurs in material.
func (c *Catalog) lookup(material string) (Material, bool) {
	folded := textnorm.Fold(material)
	if folded == "" {
		return Material{}, false
	}
	for _, m := range c.Materials {
		for _, kw := range m.Keywords {
			if strings.Contains(folded, kw) {
				return m, true
			}
		}
	}
	return Material{}, false
}

// RatePerM3 returns the base rate for material.
func (c *Catalog) RatePerM3(material string) float64 {
	if m, ok := c.lookup(material); ok && m.RatePerM3 > 0 {
		return m.RatePerM3
	}
	return c.DefaultRatePerM3
}

// Density returns the density in g/cm3 for material.
func (c *Catalog) Density(material string) float64 {
	if m, ok := c.lookup(material); ok && m.Density > 0 {
		return m.Density
	}
	return c.DefaultDensity
}

// CompatibleMaterials lists materials that pair well with material.
func (c *Catalog) CompatibleMaterials(material string) []string {
	if m, ok := c.lookup(material); ok && len(m.Compatible) > 0 {
		return append([]string(nil), m.Compatible...)
	}
	return append([]string(nil), c.DefaultCompatible...)
}

func (c *Catalog) hingeCost(h domain.Hinge) float64 {
	if v, ok := c.HingeCosts[h]; ok {
		return v
	}
	return c.HingeCosts[domain.HingeStandard]
}

func (c *Catalog) slideCost(s domain.Slide) float64 {
	if v, ok := c.SlideCosts[s]; ok {
		return v
	}
	return c.SlideCosts[domain.SlideStandard]
}

func (c *Catalog) finishFactor(f domain.Finish) float64 {
	if v, ok := c.FinishFactors[f]; ok {
		return v
	}
	return c.FinishFactors[domain.FinishMatte]
}
