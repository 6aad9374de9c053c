package render

import (
	"bytes"
	"testing"

	"github.com/revelaction/segrole/entity"
	"github.com/revelaction/segrole/process"
	"github.com/revelaction/segrole/svo"
)

func sample() []process.Result {
	return []process.Result{
		{
			Sentence:    "Elon Musk founded SpaceX in 2002.",
			Triple:      &svo.Triple{Subject: "Elon Musk", Verb: "found", Object: "SpaceX"},
			LogicalForm: "found(Elon Musk, SpaceX)",
			Entities: entity.Buckets{
				Person: []string{"Elon Musk"},
				Org:    []string{"SpaceX"},
				GPE:    []string{},
				Other:  []string{"2002"},
			},
		},
		{
			Sentence: "This is not a valid sentence.",
			Entities: entity.Empty(),
		},
		{
			Sentence: "Unknown.",
			Entities: entity.Empty(),
			Err:      "sentence not annotated",
		},
	}
}

func TestTextRendererAll(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(&buf)
	if err := r.Render(sample()); err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := "  0 ✍  Elon Musk founded SpaceX in 2002.\n" +
		"   ⟶  found(Elon Musk, SpaceX)\n" +
		"   🏷  PERSON=Elon Musk ORG=SpaceX OTHER=2002\n" +
		"  1 ✍  This is not a valid sentence.\n" +
		"   ⟶  -\n" +
		"  2 ✍  Unknown.\n" +
		"   ⟶  error: sentence not annotated\n"

	if buf.String() != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, buf.String())
	}
}

func TestTextRendererFormats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"form", "found(Elon Musk, SpaceX)\n-\nerror: sentence not annotated\n"},
		{"ents", "PERSON=Elon Musk ORG=SpaceX OTHER=2002\n\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			r := NewTextRenderer(&buf)
			r.Format = tt.format
			r.HasPrefix = false

			if err := r.Render(sample()); err != nil {
				t.Fatalf("Render: %v", err)
			}

			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestTextRendererColor(t *testing.T) {
	var buf bytes.Buffer
	r := NewTextRenderer(&buf)
	r.Format = "form"
	r.HasPrefix = false
	r.HasColor = true

	if err := r.Render(sample()[:1]); err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := Green256 + "found" + Off + "(" + Yellow256 + "Elon Musk" + Off + ", " + Teal + "SpaceX" + Off + ")\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestNextFormat(t *testing.T) {
	r := NewTextRenderer(nil)

	got := []string{}
	for i := 0; i < 4; i++ {
		r.NextFormat()
		got = append(got, r.Format)
	}

	want := []string{"form", "ents", "all", "form"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestNew(t *testing.T) {
	if _, ok := New(FormatJSON, nil, false).(*JSONRenderer); !ok {
		t.Errorf("expected a JSONRenderer")
	}

	r, ok := New("ents", nil, true).(*TextRenderer)
	if !ok || r.Format != "ents" || !r.HasColor {
		t.Errorf("unexpected renderer %+v", r)
	}
}
