// Package persist implements the dish's JSON save/load format: rules,
// cell types, and groups only. World contents and every derived field
// (variants, cache, match_cache) are never persisted; Load regenerates
// them by rebuilding the engine's cache after swapping in the loaded
// tables.
package persist

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lixenwraith/petridish/core"
	"github.com/lixenwraith/petridish/engine"
	"github.com/lixenwraith/petridish/pattern"
	"github.com/lixenwraith/petridish/rule"
)

// document is the on-disk shape. Field tags are the stable wire contract;
// ruleDoc, typeDoc, and groupDoc intentionally mirror the domain types
// rather than reusing them, so that wire format changes never ripple into
// rule.Rule or core.CellType.
type document struct {
	Rules  []ruleDoc  `json:"rules"`
	Types  []typeDoc  `json:"types"`
	Groups []groupDoc `json:"groups"`
}

type ruleDoc struct {
	Name     string  `json:"name"`
	Base     baseDoc `json:"base"`
	Enabled  bool    `json:"enabled"`
	FlipX    bool    `json:"flip_x"`
	FlipY    bool    `json:"flip_y"`
	Rotate   bool    `json:"rotate"`
	Failrate uint8   `json:"failrate"`
}

type baseDoc struct {
	Width    int        `json:"width"`
	Height   int        `json:"height"`
	Contents []entryDoc `json:"contents"`
}

type entryDoc struct {
	From fromDoc `json:"from"`
	To   toDoc   `json:"to"`
}

// fromDoc tags From's Any | One(cell) | Group(index) union by Kind.
type fromDoc struct {
	Kind  string `json:"kind"`
	Cell  uint16 `json:"cell,omitempty"`
	Group int    `json:"group,omitempty"`
}

// toDoc tags To's None | One(cell) | GroupRandom(index) | Copy(x, y) union
// by Kind.
type toDoc struct {
	Kind  string `json:"kind"`
	Cell  uint16 `json:"cell,omitempty"`
	Group int    `json:"group,omitempty"`
	CopyX int    `json:"copy_x,omitempty"`
	CopyY int    `json:"copy_y,omitempty"`
}

type typeDoc struct {
	Name  string   `json:"name"`
	Color [3]uint8 `json:"color"`
}

type groupDoc struct {
	Name  string   `json:"name"`
	Void  bool     `json:"void"`
	Cells []uint16 `json:"cells"`
}

// Save writes e's rules, types, and groups to path as JSON. World contents
// and derived fields are not included.
func Save(path string, e *engine.Engine) error {
	doc := toDocument(e)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("persist: marshal dish: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("persist: write %s: %w", path, err)
	}
	return nil
}

// Load reads path and replaces e's rules, types, and groups, then rebuilds
// variants and the cache. On any error e is left completely untouched:
// the document is decoded and validated in full before anything is
// applied.
func Load(path string, e *engine.Engine) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("persist: read %s: %w", path, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("persist: unmarshal dish: %w", err)
	}

	rules, types, groups, err := fromDocument(doc)
	if err != nil {
		return fmt.Errorf("persist: %s: %w", path, err)
	}

	e.Rules = rules
	e.Types = types
	e.Groups = groups
	e.RebuildCache()
	return nil
}

func toDocument(e *engine.Engine) document {
	doc := document{
		Rules:  make([]ruleDoc, len(e.Rules)),
		Types:  make([]typeDoc, len(e.Types)),
		Groups: make([]groupDoc, len(e.Groups)),
	}
	for i, r := range e.Rules {
		doc.Rules[i] = toRuleDoc(r)
	}
	for i, t := range e.Types {
		doc.Types[i] = typeDoc{Name: t.Name, Color: [3]uint8{t.Color.R, t.Color.G, t.Color.B}}
	}
	for i, g := range e.Groups {
		cells := make([]uint16, len(g.Cells))
		for j, c := range g.Cells {
			cells[j] = uint16(c)
		}
		doc.Groups[i] = groupDoc{Name: g.Name, Void: g.Void, Cells: cells}
	}
	return doc
}

func toRuleDoc(r *rule.Rule) ruleDoc {
	contents := make([]entryDoc, r.Base.Width*r.Base.Height)
	for y := 0; y < r.Base.Height; y++ {
		for x := 0; x < r.Base.Width; x++ {
			contents[x+r.Base.Width*y] = toEntryDoc(r.Base.Get(x, y))
		}
	}
	return ruleDoc{
		Name: r.Name,
		Base: baseDoc{
			Width:    r.Base.Width,
			Height:   r.Base.Height,
			Contents: contents,
		},
		Enabled:  r.Enabled,
		FlipX:    r.FlipX,
		FlipY:    r.FlipY,
		Rotate:   r.Rotate,
		Failrate: r.Failrate,
	}
}

func toEntryDoc(entry pattern.Entry) entryDoc {
	var from fromDoc
	switch entry.From.Kind {
	case pattern.FromAny:
		from = fromDoc{Kind: "any"}
	case pattern.FromOne:
		from = fromDoc{Kind: "one", Cell: uint16(entry.From.Cell)}
	case pattern.FromGroup:
		from = fromDoc{Kind: "group", Group: entry.From.Group}
	}

	var to toDoc
	switch entry.To.Kind {
	case pattern.ToNone:
		to = toDoc{Kind: "none"}
	case pattern.ToOne:
		to = toDoc{Kind: "one", Cell: uint16(entry.To.Cell)}
	case pattern.ToGroupRandom:
		to = toDoc{Kind: "group_random", Group: entry.To.Group}
	case pattern.ToCopy:
		to = toDoc{Kind: "copy", CopyX: entry.To.CopyX, CopyY: entry.To.CopyY}
	}

	return entryDoc{From: from, To: to}
}

// fromDocument validates and converts doc into the domain types Load
// installs. Group references in From/To are checked against doc.Groups so
// a corrupt file can never leave the engine holding an out-of-range
// index.
func fromDocument(doc document) ([]*rule.Rule, []core.CellType, []core.CellGroup, error) {
	groups := make([]core.CellGroup, len(doc.Groups))
	for i, g := range doc.Groups {
		cells := make([]core.Cell, len(g.Cells))
		for j, c := range g.Cells {
			cells[j] = core.Cell(c)
		}
		groups[i] = core.CellGroup{Name: g.Name, Void: g.Void, Cells: cells}
	}

	types := make([]core.CellType, len(doc.Types))
	for i, t := range doc.Types {
		types[i] = core.CellType{Name: t.Name, Color: core.RGB{R: t.Color[0], G: t.Color[1], B: t.Color[2]}}
	}

	rules := make([]*rule.Rule, len(doc.Rules))
	for i, rd := range doc.Rules {
		r, err := fromRuleDoc(rd, len(groups))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("rule %d (%q): %w", i, rd.Name, err)
		}
		rules[i] = r
	}

	return rules, types, groups, nil
}

func fromRuleDoc(rd ruleDoc, groupCount int) (*rule.Rule, error) {
	width, height := rd.Base.Width, rd.Base.Height
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	base := pattern.NewSized(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := x + width*y
			if i >= len(rd.Base.Contents) {
				continue
			}
			entry, err := fromEntryDoc(rd.Base.Contents[i], groupCount)
			if err != nil {
				return nil, fmt.Errorf("entry (%d,%d): %w", x, y, err)
			}
			base.Set(x, y, entry)
		}
	}

	r := rule.New()
	r.Name = rd.Name
	r.Base = base
	r.Enabled = rd.Enabled
	r.FlipX = rd.FlipX
	r.FlipY = rd.FlipY
	r.Rotate = rd.Rotate
	r.Failrate = rd.Failrate
	r.GenerateVariants()
	return r, nil
}

func fromEntryDoc(ed entryDoc, groupCount int) (pattern.Entry, error) {
	var from pattern.From
	switch ed.From.Kind {
	case "", "any":
		from = pattern.From{Kind: pattern.FromAny}
	case "one":
		from = pattern.From{Kind: pattern.FromOne, Cell: core.Cell(ed.From.Cell)}
	case "group":
		if ed.From.Group < 0 || ed.From.Group >= groupCount {
			return pattern.Entry{}, fmt.Errorf("from.group %d out of range", ed.From.Group)
		}
		from = pattern.From{Kind: pattern.FromGroup, Group: ed.From.Group}
	default:
		return pattern.Entry{}, fmt.Errorf("unknown from.kind %q", ed.From.Kind)
	}

	var to pattern.To
	switch ed.To.Kind {
	case "", "none":
		to = pattern.To{Kind: pattern.ToNone}
	case "one":
		to = pattern.To{Kind: pattern.ToOne, Cell: core.Cell(ed.To.Cell)}
	case "group_random":
		if ed.To.Group < 0 || ed.To.Group >= groupCount {
			return pattern.Entry{}, fmt.Errorf("to.group %d out of range", ed.To.Group)
		}
		to = pattern.To{Kind: pattern.ToGroupRandom, Group: ed.To.Group}
	case "copy":
		to = pattern.To{Kind: pattern.ToCopy, CopyX: ed.To.CopyX, CopyY: ed.To.CopyY}
	default:
		return pattern.Entry{}, fmt.Errorf("unknown to.kind %q", ed.To.Kind)
	}

	return pattern.Entry{From: from, To: to}, nil
}
