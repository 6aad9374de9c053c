// Package svo extracts a subject-verb-object triple from the dependency tree
// of a sentence.
package svo

import (
	"fmt"
	"strings"

	sent "github.com/revelaction/segrole/sentence"
)

const (
	posVerb = "VERB"
	depRoot = "ROOT"
)

// Triple is a complete subject, verb, object structure. The verb is the
// lemma of the root predicate; subject and object are expanded phrases.
type Triple struct {
	Subject string `json:"subject"`
	Verb    string `json:"verb"`
	Object  string `json:"object"`
}

// String returns the logical form of the triple: verb(subject, object)
func (t Triple) String() string {
	return fmt.Sprintf("%s(%s, %s)", t.Verb, t.Subject, t.Object)
}

// LogicalForm returns the logical form of t, or the empty string if there is
// no triple.
func LogicalForm(t *Triple) string {
	if t == nil {
		return ""
	}

	return t.String()
}

// Root returns the index of the first token tagged VERB with the ROOT
// dependency.
func Root(tree *sent.Tree) (int, bool) {
	for i := 0; i < tree.Len(); i++ {
		tk := tree.Token(i)
		if tk.Pos == posVerb && tk.Dep == depRoot {
			return i, true
		}
	}

	return -1, false
}

// Locate finds the root predicate of the tree and its subject and object
// dependents. It returns nil unless all three are found.
//
// When the predicate has more than one subject (or object) child, the last
// one in sentence order wins.
func Locate(tree *sent.Tree) *Triple {
	root, ok := Root(tree)
	if !ok {
		return nil
	}

	var subject, object string
	var hasSubject, hasObject bool
	for _, child := range tree.Children(root) {
		switch tree.Token(child).Dep {
		case "nsubj", "nsubjpass":
			subject = Expand(tree, child)
			hasSubject = true
		case "dobj", "pobj":
			object = Expand(tree, child)
			hasObject = true
		}
	}

	if !hasSubject || !hasObject {
		return nil
	}

	return &Triple{
		Subject: subject,
		Verb:    tree.Token(root).Lemma,
		Object:  object,
	}
}

// Expand returns the phrase headed by the token at index head: the head
// itself plus its determiners, adjectival modifiers and compound nouns, in
// sentence order.
func Expand(tree *sent.Tree, head int) string {
	words := []string{}
	for _, i := range tree.Subtree(head) {
		tk := tree.Token(i)
		if i == head || isModifier(tk.Dep) {
			words = append(words, tk.Text)
		}
	}

	if len(words) == 0 {
		return tree.Token(head).Text
	}

	return strings.Join(words, " ")
}

func isModifier(dep string) bool {
	switch dep {
	case "compound", "amod", "det":
		return true
	}

	return false
}
