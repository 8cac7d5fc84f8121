package grammar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calcDeclaration = `name = "calc"
algorithm = "ielr"
start = "expr"
terminals = ["NUM"]

[[precedence]]
assoc = "left"
symbols = ["+", "-"]

[[precedence]]
assoc = "left"
symbols = ["*"]

[[rules]]
lhs = "expr"
rhs = ["expr", "+", "expr"]
action = "$$ = $1 + $3;"

[[rules]]
lhs = "expr"
rhs = ["NUM"]

[[rules]]
lhs = "opt"
rhs = []
prec = "*"
`

func TestParseDeclaration(t *testing.T) {
	decl, err := ParseDeclaration(strings.NewReader(calcDeclaration))
	require.NoError(t, err)

	assert.Equal(t, "calc", decl.Name)
	assert.Equal(t, "ielr", decl.Algorithm)
	assert.Equal(t, "expr", decl.Start)
	assert.Equal(t, 3, decl.StartLine)
	assert.Equal(t, []string{"NUM"}, decl.Terminals)

	require.Len(t, decl.Precedence, 2)
	assert.Equal(t, "left", decl.Precedence[0].Assoc)
	assert.Equal(t, []string{"+", "-"}, decl.Precedence[0].Symbols)
	assert.Greater(t, decl.Precedence[0].Line, decl.StartLine)
	assert.Greater(t, decl.Precedence[1].Line, decl.Precedence[0].Line)

	require.Len(t, decl.Rules, 3)
	assert.Equal(t, "expr", decl.Rules[0].LHS)
	assert.Equal(t, []string{"expr", "+", "expr"}, decl.Rules[0].RHS)
	assert.Equal(t, "$$ = $1 + $3;", decl.Rules[0].Action)
	assert.Greater(t, decl.Rules[0].Line, decl.Precedence[1].Line)
	assert.Greater(t, decl.Rules[1].Line, decl.Rules[0].Line)
	assert.Empty(t, decl.Rules[2].RHS)
	assert.Equal(t, "*", decl.Rules[2].Prec)
	assert.Greater(t, decl.Rules[2].Line, decl.Rules[1].Line)
}

func TestParseDeclaration_Errors(t *testing.T) {
	tests := []struct {
		caption string
		src     string
	}{
		{
			caption: "malformed TOML",
			src:     `name = `,
		},
		{
			caption: "a rule without lhs",
			src: `name = "test"
[[rules]]
rhs = ["a"]
`,
		},
		{
			caption: "a precedence without symbols",
			src: `name = "test"
[[precedence]]
assoc = "left"
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			_, err := ParseDeclaration(strings.NewReader(tt.src))
			assert.Error(t, err)
		})
	}
}
