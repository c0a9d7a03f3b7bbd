package interpolation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		parts        []string
		placeholders []string
	}{
		{"no sites", "Hello world", []string{"Hello world"}, nil},
		{"single site", "Hello ${name}!", []string{"Hello ", "!"}, []string{"name"}},
		{"leading and trailing sites", "${a} and ${b}", []string{"", " and ", ""}, []string{"a", "b"}},
		{"adjacent sites", "${a}${b}", []string{"", "", ""}, []string{"a", "b"}},
		{"whitespace only", "   ", []string{"   "}, nil},
		{"empty site is literal", "a ${} b ${x}", []string{"a ${} b ", ""}, []string{"x"}},
		{"unterminated site is literal", "a ${x", []string{"a ${x"}, nil},
		{"first brace closes", "${ {a: 1}.a }", []string{"", ".a }"}, []string{" {a: 1"}},
		{"dollar without brace", "$5 for ${item}", []string{"$5 for ", ""}, []string{"item"}},
		{"multi line", "line1\n${x}\nline2", []string{"line1\n", "\nline2"}, []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts, placeholders := Split(tt.body)
			if diff := cmp.Diff(tt.parts, parts); diff != "" {
				t.Errorf("parts mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.placeholders, placeholders); diff != "" {
				t.Errorf("placeholders mismatch (-want +got):\n%s", diff)
			}
			assert.Len(t, parts, len(placeholders)+1)
		})
	}
}

func TestMarkerID(t *testing.T) {
	assert.Equal(t, "PH", MarkerID(0))
	assert.Equal(t, "PH_1", MarkerID(1))
	assert.Equal(t, "PH_2", MarkerID(2))
	assert.Equal(t, "PH_10", MarkerID(10))
}

func TestEquivText(t *testing.T) {
	assert.Equal(t, "${user.name}", EquivText("user.name"))
}
