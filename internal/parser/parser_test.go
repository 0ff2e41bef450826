package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	parser := New()
	require.NotNil(t, parser)
	assert.NotNil(t, parser.parser)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr bool
	}{
		{
			name: "simple function",
			source: `def hello():
    print("Hello, World!")`,
		},
		{
			name: "class definition",
			source: `class MyClass:
    def __init__(self):
        self.value = 42`,
		},
		{
			name: "complex code",
			source: `import sys

def fibonacci(n):
    if n <= 1:
        return n
    return fibonacci(n-1) + fibonacci(n-2)

class Calculator:
    def add(self, a, b):
        return a + b

if __name__ == "__main__":
    calc = Calculator()
    print(calc.add(10, 5))`,
		},
		{
			name:   "empty source",
			source: "",
		},
		{
			name: "syntax error",
			source: `def broken(:
    pass`,
			wantErr: true,
		},
		{
			name: "incomplete code",
			source: `def incomplete(
`,
			wantErr: true,
		},
		{
			name:    "keyword used as identifier",
			source:  "for = 5\n",
			wantErr: true,
		},
	}

	parser := New()
	ctx := context.Background()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parser.Parse(ctx, []byte(tt.source))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrSyntax))
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, result)
			require.NotNil(t, result.AST)
			assert.Equal(t, NodeModule, result.AST.Type)
		})
	}
}

func TestParseReportsErrorLine(t *testing.T) {
	source := "x = 1\ny = 2\ndef broken(:\n    pass\n"

	_, err := New().Parse(context.Background(), []byte(source))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestParseRejectsPython2AndInvalidForms(t *testing.T) {
	tests := []struct {
		name   string
		source string
		reason string
	}{
		{name: "print statement", source: "print \"hello\"\n", reason: "print statement"},
		{name: "exec statement", source: "exec \"code\"\n", reason: "exec statement"},
		{name: "bare walrus", source: "x := 1\n", reason: "assignment expression"},
		{name: "keyword attribute", source: "x = a.return\n", reason: "keyword"},
		{name: "long suffix", source: "x = 10l\n", reason: "long integer"},
		{name: "upper long suffix", source: "x = 0x1FL\n", reason: "long integer"},
		{name: "octal without prefix", source: "x = 0777\n", reason: "leading zeros"},
		{name: "diamond operator", source: "x = a <> b\n", reason: "<>"},
		{name: "non-ascii bytes", source: "x = b'\u1234'\n", reason: "ASCII"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Parse(context.Background(), []byte(tt.source))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax))
			assert.Contains(t, err.Error(), tt.reason)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestParseAcceptsPython3Forms(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{name: "print call", source: "print(\"hello\")\n"},
		{name: "exec call", source: "exec(\"code\")\n"},
		{name: "parenthesized walrus", source: "(x := 1)\n"},
		{name: "walrus in condition", source: "if (n := 10) > 5:\n    pass\n"},
		{name: "soft keyword attribute", source: "x = a.match\n"},
		{name: "zero literals", source: "x = 0\ny = 00\nz = 0_0\n"},
		{name: "imaginary with leading zero", source: "x = 0777j\n"},
		{name: "prefixed integers", source: "x = 0x1F + 0o17 + 0b1\n"},
		{name: "ascii bytes", source: "x = b'abc\\xff'\n"},
		{name: "non-ascii str", source: "x = '\u1234'\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Parse(context.Background(), []byte(tt.source))
			assert.NoError(t, err)
		})
	}
}

func TestParseAfterRepair(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{name: "assignment to for", source: "for = 5\nprint(for)\n"},
		{name: "attribute named in", source: "x = obj.in.y\n"},
		{name: "keyword on right of assignment", source: "is = 1\ny = is\n"},
		{name: "empty class body", source: "class A:\nx = 1\n"},
	}

	parser := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repaired := Preprocess(tt.source)
			_, err := parser.Parse(context.Background(), []byte(repaired))
			assert.NoError(t, err, "repaired source:\n%s", repaired)
		})
	}
}
