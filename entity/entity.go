package entity

import (
	sent "github.com/revelaction/segrole/sentence"
)

// Bucket is one of the fixed entity categories.
type Bucket int

const (
	Person Bucket = iota
	Org
	GPE
	Other
)

func (b Bucket) String() string {
	switch b {
	case Person:
		return "PERSON"
	case Org:
		return "ORG"
	case GPE:
		return "GPE"
	default:
		return "OTHER"
	}
}

// Buckets holds the entity texts of a sentence per Bucket, in encounter
// order, duplicates included.
type Buckets struct {
	Person []string `json:"PERSON"`
	Org    []string `json:"ORG"`
	GPE    []string `json:"GPE"`
	Other  []string `json:"OTHER"`
}

// Empty returns Buckets with all four buckets present and empty.
func Empty() Buckets {
	return Buckets{
		Person: []string{},
		Org:    []string{},
		GPE:    []string{},
		Other:  []string{},
	}
}

// Classify maps an entity label to its bucket. Labels other than PERSON, ORG
// and GPE fall in Other.
func Classify(label string) Bucket {
	switch label {
	case "PERSON":
		return Person
	case "ORG":
		return Org
	case "GPE":
		return GPE
	default:
		return Other
	}
}

// Add appends text to bucket b.
func (bs *Buckets) Add(b Bucket, text string) {
	switch b {
	case Person:
		bs.Person = append(bs.Person, text)
	case Org:
		bs.Org = append(bs.Org, text)
	case GPE:
		bs.GPE = append(bs.GPE, text)
	default:
		bs.Other = append(bs.Other, text)
	}
}

// Get returns the texts of bucket b.
func (bs Buckets) Get(b Bucket) []string {
	switch b {
	case Person:
		return bs.Person
	case Org:
		return bs.Org
	case GPE:
		return bs.GPE
	default:
		return bs.Other
	}
}

// Len is the number of entities in all buckets.
func (bs Buckets) Len() int {
	return len(bs.Person) + len(bs.Org) + len(bs.GPE) + len(bs.Other)
}

// All returns the buckets in their fixed order.
func All() []Bucket {
	return []Bucket{Person, Org, GPE, Other}
}

// Bucketize classifies the entity spans of a sentence.
func Bucketize(ents []sent.Entity) Buckets {
	bs := Empty()
	for _, e := range ents {
		bs.Add(Classify(e.Label), e.Text)
	}

	return bs
}
