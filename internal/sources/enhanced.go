package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"

	"github.com/cametumbling/discovery-pipeline/internal/discovery"
	"github.com/cametumbling/discovery-pipeline/internal/platform/htmlparser"
)

// Directory is a public startup directory page whose outbound links are
// treated as company homepages.
type Directory struct {
	Name string
	URL  string
}

// DefaultDirectories are scraped when Enhanced.Directories is nil.
var DefaultDirectories = []Directory{
	{Name: "Startbase Healthcare", URL: "https://www.startbase.de/companies?industries=healthcare"},
	{Name: "Deutsche Startups HealthTech", URL: "https://www.deutsche-startups.de/category/healthtech/"},
}

const (
	DefaultGitHubSearchURL = "https://api.github.com/search/repositories"

	maxPerDirectory   = 50
	maxReposPerQuery  = 10
	maxGeneratedHosts = 100
)

// DefaultGitHubQueries are the repository searches run by Enhanced.
var DefaultGitHubQueries = []string{
	"digital health startup",
	"telemedicine platform",
}

var conferenceExhibitors = []string{
	"https://www.doctolib.de",
	"https://www.kaia-health.com",
	"https://www.ada.com",
	"https://www.teleclinic.com",
	"https://www.medwing.com",
	"https://www.zavamed.com",
	"https://www.felmo.de",
	"https://www.viomedo.de",
	"https://www.caresyntax.com",
	"https://www.merantix.com",
	"https://www.contextflow.com",
	"https://www.heartkinetics.com",
}

var (
	healthTerms = []string{"health", "med", "care", "clinic", "doc"}
	techTerms   = []string{"tech", "ai", "app", "digital", "smart"}
	patternTLDs = []string{".de", ".com", ".io"}
)

// companyLink matches absolute links to hosts on a startup-typical TLD.
var companyLink = regexp.MustCompile(`^https?://[^/?#]+\.(?:com|de|io|co|ai|health|tech|app|eu|fr|uk|nl|ch|se|dk|at|be|it|es)(?:[/?#:]|$)`)

// platformHosts are never company homepages.
var platformHosts = []string{
	"facebook.com", "twitter.com", "linkedin.com", "instagram.com",
	"youtube.com", "google.com", "microsoft.com", "amazon.com",
	"wikipedia.org", "github.com", "github.io", "gitlab.com", "npmjs.com",
	"crunchbase.com", "startbase.com", "startbase.de", "eu-startups.com",
	"startup-db.com", "deutsche-startups.de",
}

// Enhanced combines directory scraping, GitHub project homepages, a
// conference exhibitor list and generated domain patterns. A failing
// network step is logged and skipped.
type Enhanced struct {
	Fetcher discovery.Fetcher
	Logger  *slog.Logger

	// Directories defaults to DefaultDirectories
	Directories []Directory
	// GitHubSearchURL defaults to DefaultGitHubSearchURL
	GitHubSearchURL string
	// GitHubQueries defaults to DefaultGitHubQueries
	GitHubQueries []string
}

func (e *Enhanced) Name() string { return NameEnhanced }

func (e *Enhanced) Discover(ctx context.Context) ([]discovery.Record, error) {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	directories := e.Directories
	if directories == nil {
		directories = DefaultDirectories
	}

	var records []discovery.Record

	for _, dir := range directories {
		found, err := e.scrapeDirectory(ctx, dir)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("directory scrape failed", "directory", dir.Name, "error", err)
			continue
		}
		logger.Debug("directory scraped", "directory", dir.Name, "urls", len(found))
		records = append(records, found...)
	}

	found, err := e.searchGitHub(ctx, logger)
	if err != nil {
		return nil, err
	}
	records = append(records, found...)

	records = append(records, conferenceRecords()...)
	records = append(records, GeneratedDomains()...)

	out := records[:0]
	for _, r := range records {
		if discovery.HostMatchesAny(discovery.Hostname(r.URL), platformHosts) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// scrapeDirectory returns up to maxPerDirectory company homepages linked from dir.
func (e *Enhanced) scrapeDirectory(ctx context.Context, dir Directory) ([]discovery.Record, error) {
	base, err := url.Parse(dir.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing directory URL: %w", err)
	}

	page, err := e.Fetcher.Fetch(ctx, dir.URL)
	if err != nil {
		return nil, err
	}
	if page.FinalURL != "" {
		if final, err := url.Parse(page.FinalURL); err == nil {
			base = final
		}
	}

	links, err := htmlparser.ExtractLinks(bytes.NewReader(page.Body))
	if err != nil {
		return nil, fmt.Errorf("parsing directory page: %w", err)
	}

	dirHost := discovery.Hostname(dir.URL)
	seen := make(map[string]struct{})
	var records []discovery.Record
	for _, href := range links {
		abs, ok := discovery.ResolveLink(href, base)
		if !ok || !companyLink.MatchString(abs) {
			continue
		}
		host := discovery.Hostname(abs)
		if host == "" || host == dirHost || discovery.HostMatchesAny(host, platformHosts) {
			continue
		}
		if _, dup := seen[host]; dup {
			continue
		}
		seen[host] = struct{}{}

		records = append(records, discovery.NewRecord("https://"+host, discovery.Provenance{
			Source:     dir.Name,
			Confidence: 7,
			Category:   "Directory Listed",
			Country:    "Germany",
			Method:     discovery.MethodEnhancedDiscovery,
		}))
		if len(records) == maxPerDirectory {
			break
		}
	}
	return records, nil
}

type githubSearchResponse struct {
	Items []struct {
		Homepage string `json:"homepage"`
	} `json:"items"`
}

// searchGitHub collects homepages of the top repositories for each query.
// Only a cancelled context is returned as an error.
func (e *Enhanced) searchGitHub(ctx context.Context, logger *slog.Logger) ([]discovery.Record, error) {
	endpoint := e.GitHubSearchURL
	if endpoint == "" {
		endpoint = DefaultGitHubSearchURL
	}
	queries := e.GitHubQueries
	if queries == nil {
		queries = DefaultGitHubQueries
	}

	var records []discovery.Record
	for _, q := range queries {
		params := url.Values{}
		params.Set("q", q)
		params.Set("sort", "stars")
		params.Set("order", "desc")

		res, err := e.Fetcher.Fetch(ctx, endpoint+"?"+params.Encode())
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("github search failed", "query", q, "error", err)
			continue
		}

		var body githubSearchResponse
		if err := json.Unmarshal(res.Body, &body); err != nil {
			logger.Warn("github search returned malformed JSON", "query", q, "error", err)
			continue
		}

		for i, item := range body.Items {
			if i == maxReposPerQuery {
				break
			}
			if !discovery.IsValidHTTPURL(item.Homepage) {
				continue
			}
			if discovery.HostMatchesAny(discovery.Hostname(item.Homepage), platformHosts) {
				continue
			}
			records = append(records, discovery.NewRecord(item.Homepage, discovery.Provenance{
				Source:     "GitHub: " + q,
				Confidence: 6,
				Category:   "GitHub Project",
				Country:    "Various",
				Method:     discovery.MethodEnhancedDiscovery,
			}))
		}
	}
	return records, nil
}

func conferenceRecords() []discovery.Record {
	records := make([]discovery.Record, 0, len(conferenceExhibitors))
	for _, u := range conferenceExhibitors {
		records = append(records, discovery.NewRecord(u, discovery.Provenance{
			Source:     "Health Tech Conference",
			Confidence: 8,
			Category:   "Conference Exhibitor",
			Country:    "Europe",
			Method:     discovery.MethodEnhancedDiscovery,
		}))
	}
	return records
}

// GeneratedDomains returns speculative health×tech×TLD homepages in a
// fixed order, both joined and dash-separated, capped at 100.
func GeneratedDomains() []discovery.Record {
	var records []discovery.Record
	for _, h := range healthTerms {
		for _, t := range techTerms {
			for _, tld := range patternTLDs {
				for _, host := range []string{h + t + tld, h + "-" + t + tld} {
					if len(records) == maxGeneratedHosts {
						return records
					}
					records = append(records, discovery.NewRecord("https://"+host, discovery.Provenance{
						Source:     "Generated Pattern",
						Confidence: 3,
						Category:   "Potential Domain",
						Country:    "Various",
						Method:     discovery.MethodGenerated,
					}))
				}
			}
		}
	}
	return records
}
