package xliff

import (
	"iter"
	"strconv"

	"localize-collector/internal/diag"
	"localize-collector/internal/interpolation"
	"localize-collector/internal/parser"

	"github.com/beevik/etree"
)

// Stats counts what a merge did.
type Stats struct {
	Created int
	Updated int
}

// Merge consumes fragments and reconciles each with the unit of the same id.
// A missing unit is appended to the body first and then updated like any
// other. It stops at the first StructureError; the document must then be
// discarded.
func (d *Document) Merge(fragments iter.Seq[parser.Fragment]) (Stats, error) {
	var stats Stats
	for f := range fragments {
		unit, ok := d.units[f.ID]
		if !ok {
			unit = d.newUnit()
			d.units[f.ID] = unit
			stats.Created++
		} else {
			stats.Updated++
		}
		if err := d.update(unit, f); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func (d *Document) newUnit() *etree.Element {
	unit := d.body.CreateElement(tagUnit)
	unit.CreateAttr("id", "")
	unit.CreateAttr("datatype", "text")

	unit.CreateElement(tagSource)

	group := unit.CreateElement(tagContextGroup)
	group.CreateAttr("purpose", purposeLocation)
	file := group.CreateElement(tagContext)
	file.CreateAttr("context-type", contextFile)
	line := group.CreateElement(tagContext)
	line.CreateAttr("context-type", contextLine)
	line.SetText(unknownLine)

	return unit
}

func (d *Document) update(unit *etree.Element, f parser.Fragment) error {
	source := unit.SelectElement(tagSource)
	if source == nil {
		return d.structureErr("trans-unit %q has no <%s> element", f.ID, tagSource)
	}

	groups := locationGroups(unit)
	if len(groups) == 0 {
		return d.structureErr("trans-unit %q has no location context-group", f.ID)
	}
	file := findContext(groups[0], contextFile)
	if file == nil {
		return d.structureErr("trans-unit %q has no %s context", f.ID, contextFile)
	}
	if len(groups) > 1 {
		d.opts.Diag.Report(diag.Entry{
			Kind:    diag.MultipleLocations,
			Path:    d.path,
			ID:      f.ID,
			Message: "Multiple locations found for translation id, updating the first one",
		})
	}

	unit.CreateAttr("id", f.ID)

	file.SetText(f.File)
	if d.opts.LineNumbers {
		line := findContext(groups[0], contextLine)
		if line == nil {
			line = groups[0].CreateElement(tagContext)
			line.CreateAttr("context-type", contextLine)
		}
		line.SetText(strconv.Itoa(f.Line))
	}

	for len(source.Child) > 0 {
		source.RemoveChildAt(len(source.Child) - 1)
	}
	for i, part := range f.Parts {
		if part != "" {
			source.CreateText(part)
		}
		if i < len(f.Placeholders) {
			x := source.CreateElement(tagPlaceholder)
			x.CreateAttr("id", interpolation.MarkerID(i))
			x.CreateAttr("equiv-text", interpolation.EquivText(f.Placeholders[i]))
		}
	}
	return nil
}

func locationGroups(unit *etree.Element) []*etree.Element {
	var groups []*etree.Element
	for _, g := range unit.SelectElements(tagContextGroup) {
		if g.SelectAttrValue("purpose", "") == purposeLocation {
			groups = append(groups, g)
		}
	}
	return groups
}

func findContext(group *etree.Element, contextType string) *etree.Element {
	for _, c := range group.SelectElements(tagContext) {
		if c.SelectAttrValue("context-type", "") == contextType {
			return c
		}
	}
	return nil
}
