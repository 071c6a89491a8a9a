// Package suggestion picks the quick replies offered after a turn from a
// role-aware tree loaded from YAML. A Tree is read-only once loaded and safe
// for concurrent use.
package suggestion

import (
	_ "embed"
	"fmt"
	"os"

	"shop-chatbot-be/pkg/assistant"

	"gopkg.in/yaml.v3"
)

//go:embed default_tree.yaml
var defaultTree []byte

const (
	rootID    = "root"
	typeGroup = "group"
)

// Suggestion is one quick reply. Tag is sent back as the next turn's tag;
// Value carries the URL of link nodes.
type Suggestion struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Tag   string `json:"tag,omitempty"`
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

type node struct {
	Suggestion
	visible  func(assistant.Role) bool
	parent   *node
	children []*node
}

var conditions = map[string]func(assistant.Role) bool{
	"is_guest":     func(r assistant.Role) bool { return r == assistant.RoleGuest },
	"is_customer":  func(r assistant.Role) bool { return r == assistant.RoleCustomer },
	"is_staff":     assistant.Role.IsStaff,
	"is_manager":   assistant.Role.IsManager,
	"is_not_guest": func(r assistant.Role) bool { return r != assistant.RoleGuest },
}

type nodeConfig struct {
	ID        string       `yaml:"id"`
	Label     string       `yaml:"label"`
	Tag       string       `yaml:"tag"`
	Type      string       `yaml:"type"`
	Value     string       `yaml:"value"`
	Condition string       `yaml:"condition"`
	Children  []nodeConfig `yaml:"children"`
}

// intentTarget is either a node id for every role or a role -> node id map
// with an optional "all" entry.
type intentTarget map[string]string

func (t *intentTarget) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*t = intentTarget{"all": value.Value}
		return nil
	}
	var byRole map[string]string
	if err := value.Decode(&byRole); err != nil {
		return fmt.Errorf("intent mapping: %w", err)
	}
	*t = byRole
	return nil
}

func (t intentTarget) forRole(role assistant.Role) string {
	if id, found := t[string(role)]; found {
		return id
	}
	return t["all"]
}

type treeConfig struct {
	IntentMapping map[string]intentTarget `yaml:"intent_mapping"`
	Nodes         []nodeConfig            `yaml:"nodes"`
}

// Tree indexes nodes by id and by tag. A tag may sit on several nodes; the
// first one in document order that the role can reach is used.
type Tree struct {
	root    *node
	index   map[string][]*node
	intents map[string]intentTarget
}

// Default returns the tree embedded in the binary.
func Default() (*Tree, error) {
	return Load(defaultTree)
}

// LoadFile reads a tree from path.
func LoadFile(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suggestion tree: %w", err)
	}
	return Load(data)
}

// Load parses a YAML tree. Empty input gives an empty tree.
func Load(data []byte) (*Tree, error) {
	var cfg treeConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse suggestion tree: %w", err)
	}

	t := &Tree{index: map[string][]*node{}, intents: cfg.IntentMapping}

	var rootCfg *nodeConfig
	for i := range cfg.Nodes {
		if cfg.Nodes[i].ID == rootID {
			rootCfg = &cfg.Nodes[i]
			break
		}
	}
	if rootCfg == nil {
		rootCfg = &nodeConfig{ID: rootID, Label: "Root", Children: cfg.Nodes}
	}

	root, err := build(*rootCfg)
	if err != nil {
		return nil, err
	}
	t.root = root
	t.indexNode(root)
	return t, nil
}

func build(cfg nodeConfig) (*node, error) {
	n := &node{Suggestion: Suggestion{
		ID:    cfg.ID,
		Label: cfg.Label,
		Tag:   cfg.Tag,
		Type:  cfg.Type,
		Value: cfg.Value,
	}}
	if n.Label == "" {
		n.Label = n.ID
	}
	if n.Type == "" {
		n.Type = typeGroup
	}
	if cfg.Condition != "" {
		cond, known := conditions[cfg.Condition]
		if !known {
			return nil, fmt.Errorf("node %q: unknown condition %q", cfg.ID, cfg.Condition)
		}
		n.visible = cond
	}
	for _, c := range cfg.Children {
		child, err := build(c)
		if err != nil {
			return nil, err
		}
		child.parent = n
		n.children = append(n.children, child)
	}
	return n, nil
}

func (t *Tree) indexNode(n *node) {
	t.index[n.ID] = append(t.index[n.ID], n)
	if n.Tag != "" && n.Tag != n.ID {
		t.index[n.Tag] = append(t.index[n.Tag], n)
	}
	for _, c := range n.children {
		t.indexNode(c)
	}
}

// Suggest returns the quick replies for a turn. The tag wins over the
// intent; a key that names no node falls back to the role's root, then to
// the tree root.
func (t *Tree) Suggest(role assistant.Role, tag, intent string) []Suggestion {
	if t == nil || t.root == nil {
		return []Suggestion{}
	}
	current := t.resolve(role, tag, intent)

	var out []Suggestion
	if current == t.root {
		out = t.rootSuggestions(role)
	} else {
		out = collect(current.visibleChildren(role))
		if len(out) == 0 {
			out = t.rootSuggestions(role)
		}
	}
	if out == nil {
		out = []Suggestion{}
	}
	return out
}

// Node looks up a node by id or tag among those role can reach.
func (t *Tree) Node(role assistant.Role, idOrTag string) (Suggestion, bool) {
	if t == nil {
		return Suggestion{}, false
	}
	n := t.lookup(role, idOrTag)
	if n == nil {
		return Suggestion{}, false
	}
	return n.Suggestion, true
}

// Children lists the children of a node that role may see. Unknown nodes
// and nodes hidden from role have none.
func (t *Tree) Children(role assistant.Role, idOrTag string) []Suggestion {
	if t == nil {
		return nil
	}
	n := t.lookup(role, idOrTag)
	if n == nil {
		return nil
	}
	return collect(n.visibleChildren(role))
}

func (t *Tree) lookup(role assistant.Role, key string) *node {
	for _, n := range t.index[key] {
		if n.reachable(role) {
			return n
		}
	}
	return nil
}

// resolve tries the tag, then the intent mapping, then the role's root. A
// candidate that role cannot reach is skipped.
func (t *Tree) resolve(role assistant.Role, tag, intent string) *node {
	key := tag
	if key == "" && intent != "" {
		if target, mapped := t.intents[intent]; mapped {
			key = target.forRole(role)
		}
	}
	if key == "" {
		return t.root
	}
	if n := t.lookup(role, key); n != nil {
		return n
	}
	if n := t.lookup(role, string(role)+"_root"); n != nil {
		return n
	}
	return t.root
}

// rootSuggestions flattens untagged containers one level.
func (t *Tree) rootSuggestions(role assistant.Role) []Suggestion {
	var out []Suggestion
	for _, child := range t.root.visibleChildren(role) {
		if child.Type == typeGroup && child.Tag == "" {
			out = append(out, collect(child.visibleChildren(role))...)
			continue
		}
		out = append(out, child.Suggestion)
	}
	return out
}

// reachable reports whether n and every ancestor are visible to role.
func (n *node) reachable(role assistant.Role) bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.visible != nil && !cur.visible(role) {
			return false
		}
	}
	return true
}

func (n *node) visibleChildren(role assistant.Role) []*node {
	var out []*node
	for _, c := range n.children {
		if c.visible == nil || c.visible(role) {
			out = append(out, c)
		}
	}
	return out
}

func collect(nodes []*node) []Suggestion {
	var out []Suggestion
	for _, n := range nodes {
		out = append(out, n.Suggestion)
	}
	return out
}
