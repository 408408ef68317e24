package sources

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/cametumbling/discovery-pipeline/internal/discovery"
	"github.com/cametumbling/discovery-pipeline/internal/platform/htmlparser"
)

// QueryGroup is a set of search queries sharing provenance.
type QueryGroup struct {
	Queries    []string
	Confidence int
	Category   string
	Country    string
}

// DefaultQueryGroups are run in order by Search when Groups is nil.
var DefaultQueryGroups = []QueryGroup{
	{
		Queries: []string{
			"digital health startup Germany site:.de",
			"telemedicine startup Deutschland",
			"health tech company Berlin Munich",
			"medical AI startup Germany",
			"e-health startup Deutschland site:.de",
			"digital therapeutics Germany",
			"healthtech startup Berlin",
			"medtech company Germany innovation",
		},
		Confidence: 7,
		Category:   "German Health Tech",
		Country:    "Germany",
	},
	{
		Queries: []string{
			"digital health startup Europe",
			"telemedicine company France UK Netherlands",
			"health tech startup Switzerland Austria",
			"medical AI Europe startup",
			"e-health platform Scandinavia",
			"digital therapeutics startup Nordic",
			"healthtech company Italy Spain",
			"health app startup Europe",
		},
		Confidence: 6,
		Category:   "European Health Tech",
		Country:    "Europe",
	},
	{
		Queries: []string{
			"AI diagnostics startup Europe",
			"telemedicine platform Germany",
			"digital therapeutics app",
			"remote patient monitoring startup",
			"health data analytics company",
			"medical device software startup",
			"clinical trial platform Europe",
			"pharmacy automation startup",
		},
		Confidence: 6,
		Category:   "Domain Specific",
		Country:    "Various",
	},
	{
		Queries: []string{
			"startup directory health tech Germany",
			"European health startup list",
			"digital health company directory",
			"medical technology startup database",
		},
		Confidence: 5,
		Category:   "Directory Listed",
		Country:    "Various",
	},
}

// resultSelectors locate organic result links on a search results page.
var resultSelectors = []string{
	`div.g a[href^="http"]`,
	`div.r a[href^="http"]`,
	`h3 a[href^="http"]`,
	`a[href^="http"]:has(h3)`,
}

var searchExcludedHosts = []string{
	"google.com", "youtube.com", "facebook.com", "twitter.com", "linkedin.com",
	"wikipedia.org", "crunchbase.com", "angel.co", "techcrunch.com",
	"forbes.com", "reuters.com", "bloomberg.com",
}

var companyTLDHints = []string{".com", ".de", ".io", ".ai", ".health", ".tech", ".app", ".eu", ".co"}

var healthKeywords = []string{
	"health", "medical", "medicine", "clinic", "hospital", "patient",
	"therapy", "treatment", "diagnostic", "pharma", "biotech",
	"telemedicine", "e-health", "medtech", "ai", "data", "analytics", "platform",
}

const (
	maxResultsPerQuery = 15
	resultsRequested   = 20
	maxConfidence      = 10
)

// Search scrapes search-engine result pages for company homepages.
type Search struct {
	Fetcher discovery.Fetcher
	// BaseURL is the results endpoint; the query is sent as ?q=
	BaseURL string
	Logger  *slog.Logger
	// Groups defaults to DefaultQueryGroups
	Groups []QueryGroup
}

func (s *Search) Name() string { return NameSearch }

// Discover runs every query and returns records de-duplicated across queries.
// It fails only when no query could be fetched at all.
func (s *Search) Discover(ctx context.Context) ([]discovery.Record, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	groups := s.Groups
	if groups == nil {
		groups = DefaultQueryGroups
	}

	seen := make(map[string]struct{})
	var (
		records   []discovery.Record
		succeeded int
		lastErr   error
	)

	for _, g := range groups {
		for _, q := range g.Queries {
			links, err := s.query(ctx, q)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				logger.Warn("search query failed", "query", q, "error", err)
				lastErr = err
				continue
			}
			succeeded++

			for _, link := range links {
				if _, dup := seen[link]; dup {
					continue
				}
				seen[link] = struct{}{}

				records = append(records, discovery.NewRecord(link, discovery.Provenance{
					Source:     "Google: " + q,
					Confidence: boostConfidence(g.Confidence, discovery.Hostname(link)),
					Category:   g.Category,
					Country:    g.Country,
					Method:     discovery.MethodGoogleSearch,
				}))
			}
		}
	}

	if succeeded == 0 && lastErr != nil {
		return nil, fmt.Errorf("all search queries failed: %w", lastErr)
	}
	return records, nil
}

// query fetches one results page and returns the candidate company links on it.
func (s *Search) query(ctx context.Context, q string) ([]string, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("num", fmt.Sprint(resultsRequested))

	page, err := s.Fetcher.Fetch(ctx, s.BaseURL+"?"+params.Encode())
	if err != nil {
		return nil, err
	}

	hrefs, err := htmlparser.SelectLinks(bytes.NewReader(page.Body), resultSelectors...)
	if err != nil {
		return nil, fmt.Errorf("parsing results page: %w", err)
	}

	var links []string
	for _, href := range hrefs {
		// tracking parameters follow the first '&'
		link, _, _ := strings.Cut(href, "&")
		host := discovery.Hostname(link)
		if host == "" || discovery.HostMatchesAny(host, searchExcludedHosts) {
			continue
		}
		if !discovery.HostMatchesAny(host, companyTLDHints) {
			continue
		}
		links = append(links, link)
		if len(links) == maxResultsPerQuery {
			break
		}
	}
	return links, nil
}

// boostConfidence adds one point per health keyword in host, capped at 10.
func boostConfidence(base int, host string) int {
	score := 0
	for _, k := range healthKeywords {
		if strings.Contains(host, k) {
			score++
		}
	}
	if score == 0 {
		return base
	}
	return min(base+score, maxConfidence)
}
