package redact

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// The persisted form of a Composition is a nested, tagged structure:
//
//	options: {ticksPerBeat: 480}
//	seed: 42
//	tree:
//	  id: 0
//	  kind: Root
//	  element: {}
//	  start: 0
//	  end: 1920
//	  children:
//	    - id: 1
//	      kind: PlayNote
//	      ...
//
// Node seeds are not stored; they are derived again from the composition seed
// when decoding.

type (
	yamlElement struct {
		Kind    Kind      `yaml:"kind"`
		Element yaml.Node `yaml:"element,omitempty"`
	}

	yamlSegment struct {
		yamlElement `yaml:",inline"`
		Start       int    `yaml:"start"`
		End         int    `yaml:"end"`
		Name        string `yaml:"name,omitempty"`
	}

	yamlNode struct {
		ID          SegmentID `yaml:"id"`
		yamlSegment `yaml:",inline"`
		Children    []*yamlNode `yaml:"children,omitempty"`
	}

	jsonElement struct {
		Kind    Kind            `json:"kind"`
		Element json.RawMessage `json:"element,omitempty"`
	}

	jsonSegment struct {
		jsonElement
		Start int    `json:"start"`
		End   int    `json:"end"`
		Name  string `json:"name,omitempty"`
	}

	jsonNode struct {
		ID SegmentID `json:"id"`
		jsonSegment
		Children []*jsonNode `json:"children,omitempty"`
	}

	compositionDoc[N any] struct {
		Options Options `yaml:"options" json:"options"`
		Seed    uint64  `yaml:"seed" json:"seed"`
		Tree    N       `yaml:"tree" json:"tree"`
	}

	// flatNode is a decoded node before the tree is rebuilt.
	flatNode struct {
		id       SegmentID
		parent   SegmentID
		segment  Segment
		children []SegmentID
	}
)

var errMalformedTree = errors.New("malformed composition tree")

func encodeYAMLElement(e Element) (yamlElement, error) {
	if e == nil {
		return yamlElement{}, errNilElement
	}
	var n yaml.Node
	if err := n.Encode(e); err != nil {
		return yamlElement{}, fmt.Errorf("encoding %s: %w", e.Kind(), err)
	}
	return yamlElement{Kind: e.Kind(), Element: n}, nil
}

func (y yamlElement) decode() (Element, error) {
	ptr, err := newElement(y.Kind)
	if err != nil {
		return nil, err
	}
	if y.Element.Kind != 0 {
		if err := y.Element.Decode(ptr.Interface()); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", y.Kind, err)
		}
	}
	return ptr.Elem().Interface().(Element), nil
}

func encodeJSONElement(e Element) (jsonElement, error) {
	if e == nil {
		return jsonElement{}, errNilElement
	}
	b, err := json.Marshal(e)
	if err != nil {
		return jsonElement{}, fmt.Errorf("encoding %s: %w", e.Kind(), err)
	}
	return jsonElement{Kind: e.Kind(), Element: b}, nil
}

func (j jsonElement) decode() (Element, error) {
	ptr, err := newElement(j.Kind)
	if err != nil {
		return nil, err
	}
	if len(j.Element) > 0 {
		if err := json.Unmarshal(j.Element, ptr.Interface()); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", j.Kind, err)
		}
	}
	return ptr.Elem().Interface().(Element), nil
}

func toYAMLSegment(s Segment) (yamlSegment, error) {
	e, err := encodeYAMLElement(s.Element)
	if err != nil {
		return yamlSegment{}, err
	}
	return yamlSegment{yamlElement: e, Start: s.Timing.Start, End: s.Timing.End, Name: s.name}, nil
}

func (y yamlSegment) segment() (Segment, error) {
	e, err := y.decode()
	if err != nil {
		return Segment{}, err
	}
	return Segment{Element: e, Timing: Timing{Start: y.Start, End: y.End}, name: y.Name}, nil
}

func toJSONSegment(s Segment) (jsonSegment, error) {
	e, err := encodeJSONElement(s.Element)
	if err != nil {
		return jsonSegment{}, err
	}
	return jsonSegment{jsonElement: e, Start: s.Timing.Start, End: s.Timing.End, Name: s.name}, nil
}

func (j jsonSegment) segment() (Segment, error) {
	e, err := j.decode()
	if err != nil {
		return Segment{}, err
	}
	return Segment{Element: e, Timing: Timing{Start: j.Start, End: j.End}, name: j.Name}, nil
}

// MarshalYAML encodes a standalone segment as {kind, element, start, end,
// name}.
func (s Segment) MarshalYAML() (any, error) {
	return toYAMLSegment(s)
}

func (s *Segment) UnmarshalYAML(value *yaml.Node) error {
	var y yamlSegment
	if err := value.Decode(&y); err != nil {
		return err
	}
	seg, err := y.segment()
	if err != nil {
		return err
	}
	*s = seg
	return nil
}

func (s Segment) MarshalJSON() ([]byte, error) {
	j, err := toJSONSegment(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(j)
}

func (s *Segment) UnmarshalJSON(data []byte) error {
	var j jsonSegment
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	seg, err := j.segment()
	if err != nil {
		return err
	}
	*s = seg
	return nil
}

func (c *Composition) MarshalYAML() (any, error) {
	var conv func(n *Node) (*yamlNode, error)
	conv = func(n *Node) (*yamlNode, error) {
		s, err := toYAMLSegment(n.Segment)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", n.ID, err)
		}
		ret := &yamlNode{ID: n.ID, yamlSegment: s}
		for _, ch := range c.Children(n) {
			y, err := conv(ch)
			if err != nil {
				return nil, err
			}
			ret.Children = append(ret.Children, y)
		}
		return ret, nil
	}
	doc := compositionDoc[*yamlNode]{Options: c.Options, Seed: c.Seed}
	if r := c.Root(); r != nil {
		t, err := conv(r)
		if err != nil {
			return nil, err
		}
		doc.Tree = t
	}
	return doc, nil
}

func (c *Composition) UnmarshalYAML(value *yaml.Node) error {
	var doc compositionDoc[*yamlNode]
	if err := value.Decode(&doc); err != nil {
		return err
	}
	var flat []flatNode
	var walk func(n *yamlNode, parent SegmentID) error
	walk = func(n *yamlNode, parent SegmentID) error {
		s, err := n.segment()
		if err != nil {
			return fmt.Errorf("segment %d: %w", n.ID, err)
		}
		f := flatNode{id: n.ID, parent: parent, segment: s}
		for _, ch := range n.Children {
			f.children = append(f.children, ch.ID)
		}
		flat = append(flat, f)
		for _, ch := range n.Children {
			if err := walk(ch, n.ID); err != nil {
				return err
			}
		}
		return nil
	}
	if doc.Tree != nil {
		if err := walk(doc.Tree, NoSegment); err != nil {
			return err
		}
	}
	comp, err := rebuild(doc.Options, doc.Seed, flat)
	if err != nil {
		return err
	}
	*c = *comp
	return nil
}

func (c *Composition) MarshalJSON() ([]byte, error) {
	var conv func(n *Node) (*jsonNode, error)
	conv = func(n *Node) (*jsonNode, error) {
		s, err := toJSONSegment(n.Segment)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", n.ID, err)
		}
		ret := &jsonNode{ID: n.ID, jsonSegment: s}
		for _, ch := range c.Children(n) {
			j, err := conv(ch)
			if err != nil {
				return nil, err
			}
			ret.Children = append(ret.Children, j)
		}
		return ret, nil
	}
	doc := compositionDoc[*jsonNode]{Options: c.Options, Seed: c.Seed}
	if r := c.Root(); r != nil {
		t, err := conv(r)
		if err != nil {
			return nil, err
		}
		doc.Tree = t
	}
	return json.Marshal(doc)
}

func (c *Composition) UnmarshalJSON(data []byte) error {
	var doc compositionDoc[*jsonNode]
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	var flat []flatNode
	var walk func(n *jsonNode, parent SegmentID) error
	walk = func(n *jsonNode, parent SegmentID) error {
		s, err := n.segment()
		if err != nil {
			return fmt.Errorf("segment %d: %w", n.ID, err)
		}
		f := flatNode{id: n.ID, parent: parent, segment: s}
		for _, ch := range n.Children {
			f.children = append(f.children, ch.ID)
		}
		flat = append(flat, f)
		for _, ch := range n.Children {
			if err := walk(ch, n.ID); err != nil {
				return err
			}
		}
		return nil
	}
	if doc.Tree != nil {
		if err := walk(doc.Tree, NoSegment); err != nil {
			return err
		}
	}
	comp, err := rebuild(doc.Options, doc.Seed, flat)
	if err != nil {
		return err
	}
	*c = *comp
	return nil
}

// rebuild reconstructs a Composition from nodes listed in pre-order. Ids must
// be exactly 0..len(flat)-1, with the root first; seeds are derived again from
// seed the same way Compose derives them.
func rebuild(options Options, seed uint64, flat []flatNode) (*Composition, error) {
	comp := newComposition(options, seed)
	if len(flat) == 0 {
		return comp, nil
	}
	comp.nodes = make([]*Node, len(flat))
	for _, f := range flat {
		if f.id < 0 || int(f.id) >= len(flat) {
			return nil, fmt.Errorf("%w: id %d out of range", errMalformedTree, f.id)
		}
		if comp.nodes[f.id] != nil {
			return nil, fmt.Errorf("%w: duplicate id %d", errMalformedTree, f.id)
		}
		if err := validSegment(f.segment); err != nil {
			return nil, fmt.Errorf("%w: segment %d: %w", errMalformedTree, f.id, err)
		}
		comp.nodes[f.id] = &Node{
			ID:       f.id,
			Parent:   f.parent,
			Children: f.children,
			Order:    -1,
			Rendered: len(f.children) > 0,
			Segment:  f.segment,
		}
	}
	if flat[0].id != 0 {
		return nil, fmt.Errorf("%w: root has id %d, expected 0", errMalformedTree, flat[0].id)
	}
	root := comp.nodes[0]
	root.Seed = seed
	for _, f := range flat {
		n := comp.nodes[f.id]
		if n.Parent != NoSegment {
			p := comp.nodes[n.Parent]
			n.Depth = p.Depth + 1
		}
		for i, id := range n.Children {
			ch := comp.nodes[id]
			ch.Seed = ChildSeed(n.Seed, i, ch.Segment.name)
		}
		comp.visit(n)
	}
	return comp, nil
}
