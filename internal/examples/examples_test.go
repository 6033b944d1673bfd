package examples

import (
	"testing"

	"github.com/oisee/hdlgen/pkg/dsl"
	"github.com/stretchr/testify/require"
)

func TestListIsSortedAndNonEmpty(t *testing.T) {
	names := List()
	require.NotEmpty(t, names)
	for i := 1; i < len(names); i++ {
		require.True(t, names[i-1] < names[i])
	}
}

func TestGetUnknownComputer(t *testing.T) {
	_, err := Get("does-not-exist")
	require.Error(t, err)
}

func TestEveryRegisteredComputerValidates(t *testing.T) {
	for _, name := range List() {
		c, err := Get(name)
		require.NoError(t, err)
		errs := dsl.Validate(c)
		require.True(t, errs.Empty(), "%s: %s", name, errs.Error())
	}
}
