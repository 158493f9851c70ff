package druginfo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lookerFunc func(ctx context.Context, name string) Info

func (f lookerFunc) Lookup(ctx context.Context, name string) Info { return f(ctx, name) }

func TestHandlerGetInfo(t *testing.T) {
	var asked string
	r := chi.NewRouter()
	NewHandler(lookerFunc(func(_ context.Context, name string) Info {
		asked = name
		return unavailable(name)
	})).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/medicines/Vitamin%20D/info", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Vitamin D", asked)
	var info Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, NotAvailable, info.Uses)
	assert.False(t, info.Available)
}
