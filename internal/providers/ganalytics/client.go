package ganalytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/opsdesk/salesdesk/internal/config"
	"github.com/opsdesk/salesdesk/internal/providers/upstream"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Client proxies GA4 runReport queries for the traffic dashboard. When
// credentials are missing it degrades to deterministic mock data
// (flagged mock:true) so the page renders instead of erroring, and a
// redis cache in front keeps repeat page loads off the GA quota.
type Client struct {
	baseURL     string
	propertyID  string
	accessToken string
	cacheTTL    time.Duration
	client      *http.Client
	redis       *redis.Client
	log         *zap.Logger
}

func New(cfg config.Config, rdb *redis.Client, log *zap.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.GABaseURL, "/"),
		propertyID:  strings.TrimSpace(cfg.GAPropertyID),
		accessToken: strings.TrimSpace(cfg.GAAccessToken),
		cacheTTL:    cfg.GACacheTTL,
		client:      &http.Client{Timeout: 20 * time.Second},
		redis:       rdb,
		log:         log.Named("ganalytics"),
	}
}

type ReportRequest struct {
	PagePath   string
	StartDate  string
	EndDate    string
	WholeSite  bool
	PropertyID string
}

type DayRow struct {
	Date        string  `json:"date"`
	Views       int64   `json:"views"`
	EventCount  int64   `json:"eventCount"`
	BookingRate float64 `json:"bookingRate"`
}

type Report struct {
	Rows []DayRow `json:"rows"`
	Mock bool     `json:"mock"`
}

func (c *Client) RunReport(ctx context.Context, req ReportRequest) (Report, error) {
	if req.StartDate == "" || req.EndDate == "" {
		return Report{}, fmt.Errorf("%w: startDate and endDate are required", upstream.ErrUpstream)
	}

	propertyID := req.PropertyID
	if propertyID == "" {
		propertyID = c.propertyID
	}
	if c.accessToken == "" || propertyID == "" {
		return mockReport(req), nil
	}

	cacheKey := fmt.Sprintf("ga:%s:%s:%s:%s:%t", propertyID, req.PagePath, req.StartDate, req.EndDate, req.WholeSite)
	if cached, ok := c.fromCache(ctx, cacheKey); ok {
		return cached, nil
	}

	report, err := c.fetch(ctx, propertyID, req)
	if err != nil {
		return Report{}, err
	}
	c.toCache(ctx, cacheKey, report)
	return report, nil
}

func (c *Client) fetch(ctx context.Context, propertyID string, req ReportRequest) (Report, error) {
	body := map[string]any{
		"dateRanges": []map[string]string{{"startDate": req.StartDate, "endDate": req.EndDate}},
		"dimensions": []map[string]string{{"name": "date"}},
		"metrics": []map[string]string{
			{"name": "screenPageViews"},
			{"name": "eventCount"},
		},
	}
	if !req.WholeSite && req.PagePath != "" {
		body["dimensionFilter"] = map[string]any{
			"filter": map[string]any{
				"fieldName": "pagePath",
				"stringFilter": map[string]any{
					"matchType": "EXACT",
					"value":     req.PagePath,
				},
			},
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Report{}, err
	}
	url := fmt.Sprintf("%s/properties/%s:runReport", c.baseURL, propertyID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Report{}, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %v", upstream.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return Report{}, upstream.ErrMissingCredentials
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return Report{}, fmt.Errorf("%w: ga status %d", upstream.ErrUpstream, resp.StatusCode)
	}

	var ga struct {
		Rows []struct {
			DimensionValues []struct {
				Value string `json:"value"`
			} `json:"dimensionValues"`
			MetricValues []struct {
				Value string `json:"value"`
			} `json:"metricValues"`
		} `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ga); err != nil {
		return Report{}, fmt.Errorf("%w: decode response: %v", upstream.ErrUpstream, err)
	}

	report := Report{Rows: make([]DayRow, 0, len(ga.Rows))}
	for _, row := range ga.Rows {
		day := DayRow{}
		if len(row.DimensionValues) > 0 {
			day.Date = formatGADate(row.DimensionValues[0].Value)
		}
		if len(row.MetricValues) > 0 {
			day.Views, _ = strconv.ParseInt(row.MetricValues[0].Value, 10, 64)
		}
		if len(row.MetricValues) > 1 {
			day.EventCount, _ = strconv.ParseInt(row.MetricValues[1].Value, 10, 64)
		}
		if day.Views > 0 {
			day.BookingRate = float64(day.EventCount) / float64(day.Views) * 100
		}
		report.Rows = append(report.Rows, day)
	}
	return report, nil
}

func (c *Client) fromCache(ctx context.Context, key string) (Report, bool) {
	if c.redis == nil {
		return Report{}, false
	}
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return Report{}, false
	}
	var report Report
	if err := json.Unmarshal(raw, &report); err != nil {
		return Report{}, false
	}
	return report, true
}

func (c *Client) toCache(ctx context.Context, key string, report Report) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, raw, c.cacheTTL).Err(); err != nil {
		c.log.Debug("ga cache write failed", zap.Error(err))
	}
}

// mockReport synthesizes stable per-day numbers from a hash of the
// query, so the dashboard keeps its shape in environments without GA
// credentials and repeated loads show the same data.
func mockReport(req ReportRequest) Report {
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		start = time.Now().UTC().AddDate(0, 0, -7)
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil || end.Before(start) {
		end = start.AddDate(0, 0, 7)
	}

	report := Report{Mock: true}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		seed := fnv.New32a()
		seed.Write([]byte(req.PagePath))
		seed.Write([]byte(day.Format("2006-01-02")))
		n := seed.Sum32()

		views := int64(50 + n%450)
		events := int64(n % 40)
		row := DayRow{
			Date:       day.Format("2006-01-02"),
			Views:      views,
			EventCount: events,
		}
		if views > 0 {
			row.BookingRate = float64(events) / float64(views) * 100
		}
		report.Rows = append(report.Rows, row)
	}
	return report
}

// formatGADate converts GA's YYYYMMDD dimension value to YYYY-MM-DD.
func formatGADate(value string) string {
	if len(value) != 8 {
		return value
	}
	return value[0:4] + "-" + value[4:6] + "-" + value[6:8]
}
