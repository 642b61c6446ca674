package yamas

import (
	"fmt"
	"strings"
)

// TreeNode is one node of a parsed newick tree.
type TreeNode struct {
	Name     string
	Children []*TreeNode
}

// Leaf reports whether the node is terminal.
func (n *TreeNode) Leaf() bool {
	return len(n.Children) == 0
}

// Leaves collects the names of the tree's terminal nodes in traversal
// order.
func (n *TreeNode) Leaves() []string {
	return appendLeaves(n, nil)
}

func appendLeaves(n *TreeNode, acc []string) []string {
	if n.Leaf() {
		return append(acc, n.Name)
	}
	for _, child := range n.Children {
		acc = appendLeaves(child, acc)
	}
	return acc
}

// ParseNewick parses a newick tree description. Branch lengths are
// accepted and discarded; only the topology and node names are kept.
func ParseNewick(s string) (*TreeNode, error) {
	p := &newickParser{input: strings.TrimSpace(s)}
	node, err := p.parseNode()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.input) && p.input[p.pos] == ';' {
		p.pos++
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("trailing input at offset %d", p.pos)
	}
	return node, nil
}

type newickParser struct {
	input string
	pos   int
}

func (p *newickParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\n' ||
		p.input[p.pos] == '\t' || p.input[p.pos] == '\r') {
		p.pos++
	}
}

func (p *newickParser) parseNode() (*TreeNode, error) {
	p.skipSpace()
	node := &TreeNode{}

	if p.pos < len(p.input) && p.input[p.pos] == '(' {
		p.pos++
		for {
			child, err := p.parseNode()
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)

			p.skipSpace()
			if p.pos >= len(p.input) {
				return nil, fmt.Errorf("unterminated clade")
			}
			if p.input[p.pos] == ',' {
				p.pos++
				continue
			}
			if p.input[p.pos] == ')' {
				p.pos++
				break
			}
			return nil, fmt.Errorf("unexpected %q at offset %d", p.input[p.pos], p.pos)
		}
	}

	node.Name = p.parseLabel()
	p.skipBranchLength()
	return node, nil
}

func (p *newickParser) parseLabel() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) && !strings.ContainsRune("(),:;", rune(p.input[p.pos])) {
		p.pos++
	}
	return strings.TrimSpace(p.input[start:p.pos])
}

func (p *newickParser) skipBranchLength() {
	if p.pos < len(p.input) && p.input[p.pos] == ':' {
		p.pos++
		for p.pos < len(p.input) && !strings.ContainsRune("(),;", rune(p.input[p.pos])) {
			p.pos++
		}
	}
}
