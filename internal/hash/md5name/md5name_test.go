package md5name

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	t.Parallel()

	require.Equal(t, "5d41402abc4b2a76b9719d911017c592", Sum("hello"))
	require.Equal(t, Sum("page.md"), Sum("page.md"))
	require.NotEqual(t, Sum("a.md"), Sum("b.md"))
}

func TestFile(t *testing.T) {
	t.Parallel()

	require.Equal(t, Sum("page.md")+".html", File("page.md"))
}
