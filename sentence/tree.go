package sentence

import (
	"errors"
	"fmt"
)

// ErrMalformed is returned when the dependency heads of a sentence do not
// form a tree.
var ErrMalformed = errors.New("malformed dependency tree")

// Tree is the dependency tree of a Sentence. Tokens live in an arena indexed
// by their position in the sentence; parent and children links are indexes
// into that arena.
type Tree struct {
	tokens   []Token
	parent   []int
	children [][]int
}

// NewTree builds the dependency tree of s. A token whose head is its own
// position (or negative) has no parent.
func NewTree(s Sentence) (*Tree, error) {
	n := len(s.Tokens)
	t := &Tree{
		tokens:   s.Tokens,
		parent:   make([]int, n),
		children: make([][]int, n),
	}

	for i, token := range s.Tokens {
		head := token.Head
		if head < 0 || head == i {
			t.parent[i] = -1
			continue
		}

		if head >= n {
			return nil, fmt.Errorf("%w: token %d (%q) has head %d out of range", ErrMalformed, i, token.Text, head)
		}

		t.parent[i] = head
		// i grows, so children stay in sentence order
		t.children[head] = append(t.children[head], i)
	}

	// each walk to a root must take less than n steps
	for i := range t.parent {
		steps := 0
		for p := t.parent[i]; p != -1; p = t.parent[p] {
			steps++
			if steps > n {
				return nil, fmt.Errorf("%w: cycle through token %d (%q)", ErrMalformed, i, s.Tokens[i].Text)
			}
		}
	}

	return t, nil
}

func (t *Tree) Len() int {
	return len(t.tokens)
}

func (t *Tree) Token(i int) Token {
	return t.tokens[i]
}

// Parent returns the index of the governing token of i.
func (t *Tree) Parent(i int) (int, bool) {
	p := t.parent[i]
	return p, p != -1
}

// Children returns the indexes of the tokens governed by i, in sentence
// order.
func (t *Tree) Children(i int) []int {
	return t.children[i]
}

// Subtree returns i and all its descendants, in sentence order.
func (t *Tree) Subtree(i int) []int {
	// mark, then sweep the arena: the sweep yields sentence order whatever
	// the shape of the tree.
	in := make([]bool, len(t.tokens))
	stack := []int{i}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		in[cur] = true
		stack = append(stack, t.children[cur]...)
	}

	subtree := []int{}
	for idx, ok := range in {
		if ok {
			subtree = append(subtree, idx)
		}
	}

	return subtree
}
