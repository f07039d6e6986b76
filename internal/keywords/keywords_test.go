package keywords

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected []string
	}{
		{
			name:     "frequency ranking",
			input:    "golang golang golang kubernetes kubernetes docker",
			max:      10,
			expected: []string{"golang", "kubernetes", "docker"},
		},
		{
			name:     "drops stop words and short tokens",
			input:    "the team is building an API in Go",
			max:      10,
			expected: []string{"team", "building"},
		},
		{
			name:     "drops non-alphabetic tokens",
			input:    "python3 react c++ 2024 backend backend",
			max:      10,
			expected: []string{"backend", "react"},
		},
		{
			name:     "empty input",
			input:    "",
			max:      10,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.input, tt.max)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Extract() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestExtractCap(t *testing.T) {
	var b strings.Builder
	words := []string{
		"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf",
		"hotel", "india", "juliet", "kilo", "lima", "mike", "november",
	}
	for _, w := range words {
		b.WriteString(w + " ")
	}

	got := Extract(b.String(), 5)
	if len(got) != 5 {
		t.Errorf("Extract with max=5 returned %d keywords", len(got))
	}
}

func TestExtractDeterministic(t *testing.T) {
	input := "scaling services with grpc and postgres, scaling pipelines with kafka"
	first := Extract(input, 30)
	for i := 0; i < 10; i++ {
		if got := Extract(input, 30); !reflect.DeepEqual(got, first) {
			t.Fatalf("Extract not deterministic: %v vs %v", got, first)
		}
	}
}

func TestMatch(t *testing.T) {
	resume := "Built microservices in Go with PostgreSQL and Docker."
	kws := []string{"microservices", "postgresql", "kafka", "docker"}

	matched, missing := Match(resume, kws)

	wantMatched := []string{"microservices", "postgresql", "docker"}
	wantMissing := []string{"kafka"}
	if !reflect.DeepEqual(matched, wantMatched) {
		t.Errorf("matched = %v, want %v", matched, wantMatched)
	}
	if !reflect.DeepEqual(missing, wantMissing) {
		t.Errorf("missing = %v, want %v", missing, wantMissing)
	}
}

func TestMatchEmptyKeywords(t *testing.T) {
	matched, missing := Match("any resume text", nil)
	if matched != nil || missing != nil {
		t.Errorf("Match with no keywords = (%v, %v), want (nil, nil)", matched, missing)
	}
}
