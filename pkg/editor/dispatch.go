package editor

import (
	"github.com/aretw0/stylepanel/pkg/domain"
	"github.com/aretw0/stylepanel/pkg/schema"
)

// Render builds the view of every rendered group in schema order.
func (c *Coordinator) Render() []GroupView {
	groups := c.Groups()
	views := make([]GroupView, 0, len(groups))
	for _, g := range groups {
		views = append(views, GroupView{
			Title:   g.Title,
			Kind:    g.Kind,
			Active:  c.visible.IsActive(g.Title),
			Section: c.Section(g),
		})
	}
	return views
}

// Section returns the editing surface for g, or nil when its kind has none.
func (c *Coordinator) Section(g schema.Group) Section {
	switch g.Kind {
	case domain.KindSettings:
		return c.settings()
	case domain.KindSource:
		return c.source()
	case domain.KindProperties:
		return c.properties(g)
	case domain.KindRaw:
		return &RawSection{Layer: c.layer, c: c}
	default:
		c.logger.Debug("No section for group kind", "title", g.Title, "kind", g.Kind)
		return nil
	}
}

func (c *Coordinator) settings() *SettingsSection {
	return &SettingsSection{
		ID:         c.layer.ID(),
		Type:       c.layer.Type(),
		LayerTypes: c.provider.LayerTypes(),
		c:          c,
	}
}

func (c *Coordinator) source() *SourceSection {
	s := &SourceSection{
		Source:          c.layer.Source(),
		SourceLayer:     c.layer.SourceLayer(),
		Sources:         c.sources,
		HasFilter:       c.layer.HasFilter(),
		InspectionMode:  domain.InspectionHighlight,
		InspectionModes: []string{domain.InspectionHighlight, domain.InspectionNormal},
		c:               c,
	}
	if s.HasFilter {
		s.Filter = c.layer.Filter()
		s.FilterProperties = c.vectorLayers[s.SourceLayer]
	}
	return s
}

func (c *Coordinator) properties(g schema.Group) *PropertiesSection {
	s := &PropertiesSection{
		Fields: g.Fields,
		Values: make(map[string]any, len(g.Fields)),
		c:      c,
	}
	for _, f := range g.Fields {
		if v, ok := f.Value(c.layer); ok {
			s.Values[f.Name] = v
		}
	}
	return s
}
