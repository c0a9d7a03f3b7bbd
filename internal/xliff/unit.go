package xliff

import (
	"github.com/beevik/etree"
)

// SourceNode is one run of a unit's source: either literal text or a
// placeholder marker.
type SourceNode struct {
	Text      string
	MarkerID  string
	EquivText string
}

// Unit is a read-only snapshot of a translation unit.
type Unit struct {
	ID     string
	File   string
	Line   string
	Source []SourceNode
	Target string
}

// Lookup returns a snapshot of the unit indexed under id.
func (d *Document) Lookup(id string) (Unit, bool) {
	e, ok := d.units[id]
	if !ok {
		return Unit{}, false
	}

	u := Unit{ID: e.SelectAttrValue("id", "")}
	if groups := locationGroups(e); len(groups) > 0 {
		if c := findContext(groups[0], contextFile); c != nil {
			u.File = c.Text()
		}
		if c := findContext(groups[0], contextLine); c != nil {
			u.Line = c.Text()
		}
	}
	if src := e.SelectElement(tagSource); src != nil {
		for _, tok := range src.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				u.Source = append(u.Source, SourceNode{Text: t.Data})
			case *etree.Element:
				if t.Tag == tagPlaceholder {
					u.Source = append(u.Source, SourceNode{
						MarkerID:  t.SelectAttrValue("id", ""),
						EquivText: t.SelectAttrValue("equiv-text", ""),
					})
				}
			}
		}
	}
	if tgt := e.SelectElement("target"); tgt != nil {
		u.Target = tgt.Text()
	}
	return u, true
}
