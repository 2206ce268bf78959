package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kostadin12/sis-api/internal/config"
)

// Client fetches public holidays from the Nager.Date API. A timeout or
// non-200 answer surfaces as an error; the calendar service degrades to
// its fallback table in that case.
type Client struct {
	baseURL     string
	countryCode string
	httpClient  *http.Client
}

func NewClient(cfg config.HolidayConfig) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		countryCode: cfg.CountryCode,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

type publicHoliday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// FetchHolidays returns the public holidays of a year for the
// configured country.
func (c *Client) FetchHolidays(ctx context.Context, year int) ([]time.Time, error) {
	url := fmt.Sprintf("%s/api/v3/PublicHolidays/%d/%s", c.baseURL, year, c.countryCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build holiday request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("holiday request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday API returned status %d for year %d", resp.StatusCode, year)
	}

	var payload []publicHoliday
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode holiday response: %w", err)
	}

	holidays := make([]time.Time, 0, len(payload))
	for _, h := range payload {
		d, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse holiday date %q: %w", h.Date, err)
		}
		holidays = append(holidays, d)
	}
	return holidays, nil
}
