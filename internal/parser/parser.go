package parser

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Houeta/yard-scout/internal/models"
	"github.com/PuerkitoBio/goquery"
)

// InventorySource produces the current inventory snapshot for the configured search.
type InventorySource interface {
	FetchSnapshot(ctx context.Context) (models.Snapshot, error)
}

// Column layout of the inventory search results table.
const (
	idIdx = iota
	makeIdx
	modelIdx
	yearIdx
	colorIdx
	locationIdx
	dateAddedIdx
	numberOfCells
)

type Parser struct {
	log     *slog.Logger
	client  *http.Client
	destURL string
}

func NewParser(log *slog.Logger, destinationURL string, timeout time.Duration) *Parser {
	return &Parser{log: log, destURL: destinationURL, client: &http.Client{Timeout: timeout}}
}

// FetchSnapshot downloads the search results page and parses the inventory table.
func (p *Parser) FetchSnapshot(ctx context.Context) (models.Snapshot, error) {
	resp, err := p.getHTMLResponse(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get html response: %w", err)
	}
	defer resp.Body.Close()

	snapshot, err := p.parseTableResponse(ctx, resp.Body)
	if err != nil {
		return nil, err
	}
	p.log.InfoContext(ctx, "Successfully scraped inventory from the webpage", "count", len(snapshot))

	return snapshot, nil
}

func (p *Parser) getHTMLResponse(ctx context.Context) (*http.Response, error) {
	reqURL, err := url.Parse(p.destURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse destination URL %s: %w", p.destURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new request %s: %w", reqURL.String(), err)
	}

	req.Header.Add("User-Agent", "Mozilla/5.0 (compatible; GoHttpClient/1.0)")

	p.log.DebugContext(ctx, "Send request", "method", req.Method, "URL", req.URL, "header", req.Header)

	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", p.destURL, err)
	}

	if res.StatusCode != http.StatusOK {
		res.Body.Close()
		return nil, fmt.Errorf("status code error: [%d] %s", res.StatusCode, res.Status)
	}

	p.log.InfoContext(ctx, "Successfully received http response", "status code", res.StatusCode)

	return res, nil
}

func (p *Parser) parseTableResponse(ctx context.Context, inp io.Reader) (models.Snapshot, error) {
	doc, err := goquery.NewDocumentFromReader(inp)
	if err != nil {
		return nil, fmt.Errorf("data cannot be parsed as HTML: %w", err)
	}

	snapshot := models.Snapshot{}
	doc.Find("table tbody tr").Each(func(idx int, s *goquery.Selection) {
		cells := s.Find("td")

		if cells.Length() < numberOfCells {
			p.log.WarnContext(ctx, "table row has insufficient cells", "index", idx, "length", cells.Length())
			return
		}

		cell := func(i int) string { return strings.TrimSpace(cells.Eq(i).Text()) }
		item := models.InventoryItem{
			ID:        cell(idIdx),
			Make:      cell(makeIdx),
			Model:     cell(modelIdx),
			Year:      cell(yearIdx),
			Color:     cell(colorIdx),
			Location:  cell(locationIdx),
			DateAdded: cell(dateAddedIdx),
		}
		if item.ID == "" {
			p.log.WarnContext(ctx, "table row has no stock id", "index", idx)
			return
		}

		p.log.DebugContext(ctx, "Parsed vehicle", "id", item.ID, "year", item.Year, "color", item.Color)
		snapshot = append(snapshot, item)
	})

	return snapshot, nil
}
