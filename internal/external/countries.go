package external

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const CountriesProvider = "restcountries"

const countryFields = "name,capital,cioc,cca2,cca3,ccn3,area"

type RestCountry struct {
	Name    RestCountryName `json:"name"`
	Cca2    string          `json:"cca2"`
	Ccn3    string          `json:"ccn3"`
	Cca3    string          `json:"cca3"`
	Cioc    string          `json:"cioc"`
	Capital []string        `json:"capital"`
	Area    float64         `json:"area"`
}

type RestCountryName struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

type CountriesClient struct {
	baseURL    string
	version    string
	httpClient *http.Client
}

func NewCountriesClient(baseURL, version string, timeout time.Duration) *CountriesClient {
	return &CountriesClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		version:    version,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *CountriesClient) All(ctx context.Context) ([]RestCountry, error) {
	return c.fetch(ctx, "all")
}

func (c *CountriesClient) ByName(ctx context.Context, name string) ([]RestCountry, error) {
	return c.fetch(ctx, "name/"+url.PathEscape(name))
}

func (c *CountriesClient) ByCapital(ctx context.Context, capital string) ([]RestCountry, error) {
	return c.fetch(ctx, "capital/"+url.PathEscape(capital))
}

// ByCode matches cca2, ccn3, cca3 or cioc.
func (c *CountriesClient) ByCode(ctx context.Context, code string) ([]RestCountry, error) {
	return c.fetch(ctx, "alpha/"+url.PathEscape(code))
}

// fetch returns an empty list when the API reports no match.
func (c *CountriesClient) fetch(ctx context.Context, path string) ([]RestCountry, error) {
	endpoint := fmt.Sprintf("%s/%s/%s?fields=%s", c.baseURL, c.version, path, countryFields)

	header := http.Header{}
	header.Set("Accept", "application/json")

	resp, err := get(ctx, c.httpClient, endpoint, header)
	if err != nil {
		return nil, &ProviderError{Provider: CountriesProvider, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return []RestCountry{}, nil
	default:
		return nil, &ProviderError{Provider: CountriesProvider, StatusCode: resp.StatusCode, Err: errors.New(readSnippet(resp.Body))}
	}

	var countries []RestCountry
	if err := json.NewDecoder(resp.Body).Decode(&countries); err != nil {
		return nil, &ProviderError{Provider: CountriesProvider, Err: fmt.Errorf("decode response: %w", err)}
	}
	if countries == nil {
		countries = []RestCountry{}
	}
	return countries, nil
}
