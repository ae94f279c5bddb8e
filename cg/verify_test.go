package cg

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rowMarker is what the terminal consume callback emits in tests, so
// the verifier can find the consume sites in the generated text.
const rowMarker = "/* row */"

var declPattern = regexp.MustCompile(
	`^(?:int32_t|int64_t|double|char|bool|date|std::string_view) (\w+) = `)

// bindingCheck is a lightweight parser over emitted output. It tracks
// lexical scopes by brace balance and verifies that at every consume
// site each required varname is bound exactly once in the enclosing
// scopes, and that no scope binds the same varname twice.
func bindingCheck(t *testing.T, src string, required []*IU) int {
	t.Helper()

	scopes := []map[string]int{{}}
	markers := 0

	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)

		if m := declPattern.FindStringSubmatch(trimmed); m != nil {
			top := scopes[len(scopes)-1]
			top[m[1]]++
			assert.Equal(t, 1, top[m[1]], "varname %s bound twice in one scope", m[1])
		}

		if trimmed == rowMarker {
			markers++
			for _, iu := range required {
				n := 0
				for _, scope := range scopes {
					n += scope[iu.VarName]
				}
				assert.Equal(t, 1, n, "IU %s bound %d times at consume site", iu.VarName, n)
			}
		}

		net := 0
		for _, r := range trimmed {
			switch r {
			case '{':
				net++
			case '}':
				net--
			}
		}
		for ; net > 0; net-- {
			scopes = append(scopes, map[string]int{})
		}
		for ; net < 0; net++ {
			require.Greater(t, len(scopes), 1, "unbalanced braces in:\n%s", src)
			scopes = scopes[:len(scopes)-1]
		}
	}

	require.Equal(t, 1, len(scopes), "unbalanced braces in:\n%s", src)
	return markers
}

func consumeRow(ctx *Context) Consumer {
	return func() {
		ctx.Emit(rowMarker)
	}
}
