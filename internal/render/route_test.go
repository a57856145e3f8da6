package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lapimposteur/internal/lerr"
	"lapimposteur/internal/spec"
)

func TestRoute_AbsentExchangeAndKey_UsesReplyTo(t *testing.T) {
	vars := spec.Variables{spec.ReplyTo: spec.StrLit("caller.q")}
	r, err := Route(spec.RouteSpec{}, vars, Options{})
	require.NoError(t, err)
	assert.Equal(t, spec.Route{Exchange: "", RoutingKey: "caller.q"}, r)
}

func TestRoute_PresentEmptyExchange_UsesDefault(t *testing.T) {
	vars := spec.Variables{spec.ReplyTo: spec.StrLit("caller.q")}
	r, err := Route(spec.NewRouteSpec("", ""), vars, Options{})
	require.NoError(t, err)
	assert.Equal(t, "", r.Exchange)
	assert.Equal(t, "caller.q", r.RoutingKey)
}

func TestRoute_PresentKey_UsedVerbatim(t *testing.T) {
	r, err := Route(spec.NewRouteSpec("x", "r.k"), spec.Variables{}, Options{})
	require.NoError(t, err)
	assert.Equal(t, spec.Route{Exchange: "x", RoutingKey: "r.k"}, r)
}

func TestRoute_MissingReplyTo_Errors(t *testing.T) {
	_, err := Route(spec.RouteSpec{}, spec.Variables{}, Options{})
	require.Error(t, err)
	assert.True(t, lerr.Is(err, lerr.KindReplyToMissing))
}

func TestRoute_MissingReplyTo_CompatFallback(t *testing.T) {
	r, err := Route(spec.RouteSpec{}, spec.Variables{}, Options{CompatInvalidKey: true})
	require.NoError(t, err)
	assert.Equal(t, "invalid.key", r.RoutingKey)
}
