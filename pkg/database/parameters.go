package database

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parameters is an ordered set of named integer tuning parameters.
// Iteration order is insertion order, which keeps the generated define
// text stable across runs.
//
// The zero value is an empty set ready to use.
type Parameters struct {
	names  []string
	values map[string]int
}

// Param is a single name/value pair.
type Param struct {
	Name  string
	Value int
}

// NewParameters builds a set from pairs in the given order. A repeated
// name keeps its first position and takes the last value.
func NewParameters(pairs ...Param) *Parameters {
	p := &Parameters{}
	for _, kv := range pairs {
		p.Set(kv.Name, kv.Value)
	}
	return p
}

// Len returns the number of parameters.
func (p *Parameters) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

// Get returns the value for name.
func (p *Parameters) Get(name string) (int, bool) {
	if p == nil || p.values == nil {
		return 0, false
	}
	v, ok := p.values[name]
	return v, ok
}

// Set stores value under name. New names are appended; existing names keep their position.
func (p *Parameters) Set(name string, value int) {
	if p.values == nil {
		p.values = make(map[string]int)
	}
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = value
}

// SetIfAbsent stores value only when name is not present yet. It reports whether it stored.
func (p *Parameters) SetIfAbsent(name string, value int) bool {
	if _, ok := p.Get(name); ok {
		return false
	}
	p.Set(name, value)
	return true
}

// Merge copies every parameter of other that is not already present, in other's order.
func (p *Parameters) Merge(other *Parameters) {
	other.Range(func(name string, value int) bool {
		p.SetIfAbsent(name, value)
		return true
	})
}

// Range calls fn for each parameter in order until fn returns false.
func (p *Parameters) Range(fn func(name string, value int) bool) {
	if p == nil {
		return
	}
	for _, name := range p.names {
		if !fn(name, p.values[name]) {
			return
		}
	}
}

// Names returns the parameter names in order.
func (p *Parameters) Names() []string {
	names := make([]string, 0, p.Len())
	if p != nil {
		names = append(names, p.names...)
	}
	return names
}

// Pairs returns the parameters as an ordered slice.
func (p *Parameters) Pairs() []Param {
	pairs := make([]Param, 0, p.Len())
	p.Range(func(name string, value int) bool {
		pairs = append(pairs, Param{Name: name, Value: value})
		return true
	})
	return pairs
}

// Clone returns an independent copy.
func (p *Parameters) Clone() *Parameters {
	c := &Parameters{}
	c.Merge(p)
	return c
}

// Defines renders one "#define NAME VALUE" line per parameter, in order.
func (p *Parameters) Defines() string {
	var b strings.Builder
	p.Range(func(name string, value int) bool {
		b.WriteString("#define ")
		b.WriteString(name)
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(value))
		b.WriteByte('\n')
		return true
	})
	return b.String()
}

// String renders the set as {A=1, B=2}.
func (p *Parameters) String() string {
	parts := make([]string, 0, p.Len())
	p.Range(func(name string, value int) bool {
		parts = append(parts, fmt.Sprintf("%s=%d", name, value))
		return true
	})
	return "{" + strings.Join(parts, ", ") + "}"
}

// UnmarshalYAML decodes a mapping node, keeping the document key order.
func (p *Parameters) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: parameters must be a mapping", value.Line)
	}
	*p = Parameters{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]
		var n int
		if err := v.Decode(&n); err != nil {
			return fmt.Errorf("line %d: parameter %q: %w", v.Line, k.Value, err)
		}
		if _, dup := p.Get(k.Value); dup {
			return fmt.Errorf("line %d: duplicate parameter %q", k.Line, k.Value)
		}
		p.Set(k.Value, n)
	}
	return nil
}

// MarshalYAML encodes the set as a mapping in insertion order.
func (p Parameters) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	p.Range(func(name string, value int) bool {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(value)},
		)
		return true
	})
	return node, nil
}

// MarshalJSON encodes the set as an object in insertion order.
func (p Parameters) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	p.Range(func(name string, value int) bool {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		var key []byte
		if key, err = json.Marshal(name); err != nil {
			return false
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(value))
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object, keeping the document key order.
func (p *Parameters) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("parameters must be an object")
	}
	*p = Parameters{}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", tok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
		if _, dup := p.Get(name); dup {
			return fmt.Errorf("duplicate parameter %q", name)
		}
		p.Set(name, n)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
