package internal_transcribe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReflowParagraphs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "breaks between sentences",
			in:   "The client arrived on time. We discussed coping strategies.",
			want: "The client arrived on time.\n\nWe discussed coping strategies.",
		},
		{
			name: "abbreviation does not break",
			in:   "Use grounding techniques e.g. breathing exercises daily.",
			want: "Use grounding techniques e.g. breathing exercises daily.",
		},
		{
			name: "url does not break",
			in:   "See example.com/worksheet for the handout.",
			want: "See example.com/worksheet for the handout.",
		},
		{
			name: "opening quote starts a paragraph",
			in:   `He paused. "I feel better now."`,
			want: "He paused.\n\n\"I feel better now.\"",
		},
		{
			name: "question and exclamation terminate sentences",
			in:   "Did it help? Yes! We will continue next week.",
			want: "Did it help?\n\nYes!\n\nWe will continue next week.",
		},
		{
			name: "whitespace run is collapsed into the break",
			in:   "First.   Second.",
			want: "First.\n\nSecond.",
		},
		{
			name: "lowercase continuation stays in place",
			in:   "It was hard. but she managed.",
			want: "It was hard. but she managed.",
		},
		{
			name: "trailing punctuation untouched",
			in:   "The end.",
			want: "The end.",
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "  Only sentence.  ",
			want: "Only sentence.",
		},
		{
			name: "empty input",
			in:   "   ",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReflowParagraphs(tt.in))
		})
	}
}
