package parser

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRepairRulesOrder(t *testing.T) {
	names := []string{}
	for _, rule := range DefaultRepairRules() {
		names = append(names, rule.Name)
	}

	assert.Equal(t, []string{
		"comment-docstring",
		"strip-comment-lines",
		"strip-blank-lines",
		"empty-class-body",
		"keyword-before-punct",
		"keyword-before-bracket",
		"def-before-bracket",
		"return-before-closer",
		"keyword-after-assign",
	}, names)
}

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "comment line opening a docstring",
			input:    "def f():\n    # hidden \"\"\"\n    text\n    \"\"\"\n    return 1\n",
			expected: "def f():\n    \"\"\"\n    text\n    \"\"\"\n    return 1\n",
		},
		{
			name:     "comment lines removed",
			input:    "# header\nx = 1\n    # indented\ny = 2\n",
			expected: "x = 1\ny = 2\n",
		},
		{
			name:     "blank lines removed",
			input:    "x = 1\n\n   \n\t\ny = 2\n",
			expected: "x = 1\ny = 2\n",
		},
		{
			name:     "trailing comment kept",
			input:    "x = 1  # note\n",
			expected: "x = 1  # note\n",
		},
		{
			name:     "empty class body",
			input:    "class A:\nx = 1\n",
			expected: "class A:\n    \"\"\"\"\"\"\nx = 1\n",
		},
		{
			name:     "class with body untouched",
			input:    "class A:\n    x = 1\n",
			expected: "class A:\n    x = 1\n",
		},
		{
			name:     "keyword assigned",
			input:    "for = 5\n",
			expected: "forp = 5\n",
		},
		{
			name:     "keyword before comma",
			input:    "d = {1: in, 2: 3}\n",
			expected: "d = {1: inp, 2: 3}\n",
		},
		{
			name:     "keyword followed by attribute access",
			input:    "x = obj.in.y\n",
			expected: "x = obj.inp.y\n",
		},
		{
			name:     "keyword called",
			input:    "is(1)\n",
			expected: "isp(1)\n",
		},
		{
			name:     "def with space before bracket",
			input:    "x = def (1)\n",
			expected: "x = defp (1)\n",
		},
		{
			name:     "return before closer",
			input:    "f(a, return)\n",
			expected: "f(a, returnp)\n",
		},
		{
			name:     "keyword after assignment",
			input:    "y = del\n",
			expected: "y = delp\n",
		},
		{
			name:     "real keywords untouched",
			input:    "for i in range(3):\n    if i is None:\n        del x\n    return i\n",
			expected: "for i in range(3):\n    if i is None:\n        del x\n    return i\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Preprocess(tt.input))
		})
	}
}

func TestPreprocessIsPure(t *testing.T) {
	input := "for = 5\n# c\n"
	first := Preprocess(input)
	second := Preprocess(input)
	assert.Equal(t, first, second)
	assert.Equal(t, "for = 5\n# c\n", input)
}

func TestNewPreprocessorCustomRules(t *testing.T) {
	rule := RepairRule{
		Name:    "rename-print",
		Pattern: regexp.MustCompile(`\bprint\b`),
		Replace: "echo",
	}

	p := NewPreprocessor(rule)
	assert.Equal(t, "echo(1)\n# c\n", p.Preprocess("print(1)\n# c\n"), "only the custom rule runs")
}

func TestNewPreprocessorDefaults(t *testing.T) {
	source := "# c\nfor = 5\n"
	assert.Equal(t, Preprocess(source), NewPreprocessor().Preprocess(source))
}
