package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountriesClient_Endpoints(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		assert.Equal(t, countryFields, r.URL.Query().Get("fields"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":{"common":"Norway","official":"Kingdom of Norway"},"cca2":"NO","ccn3":"578","cca3":"NOR","cioc":"NOR","capital":["Oslo"],"area":323802}]`))
	}))
	defer srv.Close()

	client := NewCountriesClient(srv.URL, "v3.1", time.Second)
	ctx := context.Background()

	countries, err := client.All(ctx)
	require.NoError(t, err)
	require.Len(t, countries, 1)
	assert.Equal(t, "Norway", countries[0].Name.Common)
	assert.Equal(t, []string{"Oslo"}, countries[0].Capital)
	assert.Equal(t, 323802.0, countries[0].Area)

	_, err = client.ByName(ctx, "norway")
	require.NoError(t, err)
	_, err = client.ByCapital(ctx, "oslo")
	require.NoError(t, err)
	_, err = client.ByCode(ctx, "NO")
	require.NoError(t, err)

	assert.Equal(t, []string{"/v3.1/all", "/v3.1/name/norway", "/v3.1/capital/oslo", "/v3.1/alpha/NO"}, paths)
}

func TestCountriesClient_NotFoundIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":404,"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	countries, err := NewCountriesClient(srv.URL, "v3.1", time.Second).ByName(context.Background(), "atlantis")
	assert.NoError(t, err)
	assert.Empty(t, countries)
}

func TestCountriesClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewCountriesClient(srv.URL, "v3.1", time.Second).All(context.Background())
	assert.ErrorContains(t, err, "unexpected status 502")
}
