package error

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecError_Error(t *testing.T) {
	cause := errors.New("undefined symbol")

	t.Run("with a source line", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "calc.toml")
		src := "name = \"calc\"\n[[rules]]\nlhs = \"expr\"\n"
		require.NoError(t, os.WriteFile(path, []byte(src), 0600))

		err := &SpecError{
			Cause:      cause,
			Detail:     "num",
			FilePath:   path,
			SourceName: "calc.toml",
			Row:        3,
		}
		assert.Equal(t, "calc.toml: 3: error: undefined symbol: num\n    lhs = \"expr\"", err.Error())
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("without a source", func(t *testing.T) {
		err := &SpecError{
			Cause: cause,
		}
		assert.Equal(t, "error: undefined symbol", err.Error())
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := SpecErrors{
			{Cause: cause, Detail: "a", Row: 1},
			{Cause: cause, Detail: "b", Row: 2},
		}
		assert.Equal(t, "1: error: undefined symbol: a\n2: error: undefined symbol: b", errs.Error())
	})
}
