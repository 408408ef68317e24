package sources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cametumbling/discovery-pipeline/internal/discovery"
)

const healthNewsFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Health Tech News</title>
	<link>https://www.healthnews.test/</link>
	<item>
		<title>Vivira raises Series B</title>
		<link>https://www.healthnews.test/2024/vivira</link>
		<description><![CDATA[<p><a href="https://www.vivira.de/press">Vivira</a> closes round.
		See <a href="/2024/other">related</a> and <a href="https://twitter.com/vivira">tweet</a>.</p>]]></description>
	</item>
	<item>
		<title>Nia partners with Vivira</title>
		<link>https://www.healthnews.test/2024/nia</link>
		<description><![CDATA[<a href="https://nia-health.de">Nia</a> and <a href="https://vivira.de">Vivira</a>]]></description>
	</item>
</channel>
</rss>`

func TestFeeds_Discover(t *testing.T) {
	f := &mockFetcher{
		responses: map[string][]byte{"https://www.healthnews.test/feed": []byte(healthNewsFeed)},
	}
	src := &Feeds{
		Fetcher: f,
		URLs:    []string{"https://www.healthnews.test/feed", "https://down.test/feed"},
		Logger:  quietLogger(),
	}

	records, err := src.Discover(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"https://www.vivira.de", "https://nia-health.de", "https://vivira.de"}, urlsOf(records))
	for _, r := range records {
		require.Equal(t, "Health Tech News", r.Source)
		require.Equal(t, discovery.MethodRSSFeed, r.Method)
		require.Equal(t, 5, r.Confidence)
		require.Equal(t, "News Mention", r.Category)
	}
	require.Equal(t, "Vivira raises Series B", records[0].Notes)
}

func TestFeeds_NoFeedReadable(t *testing.T) {
	src := &Feeds{
		Fetcher: &mockFetcher{responses: map[string][]byte{"https://bad.test/feed": []byte("not xml at all")}},
		URLs:    []string{"https://bad.test/feed", "https://down.test/feed"},
		Logger:  quietLogger(),
	}

	_, err := src.Discover(context.Background())
	require.Error(t, err)
}
