// Package analytics reduces raw engagement records into the summaries the
// dashboard presents. All functions are pure: they never mutate their input
// and always allocate fresh results.
package analytics

import (
	"sort"
	"time"

	"github.com/postpilot/dashboard/internal/utils"
	"github.com/postpilot/dashboard/posts"
)

// UnknownPlatform buckets records whose joined post could not be resolved.
const UnknownPlatform = "Unknown"

// DisplayDateFormat renders a record's creation time for chart labels.
const DisplayDateFormat = "02 Jan 2006"

// Record is one measurement snapshot of a post's performance. Numeric fields
// are pointers so records arriving with missing or null values aggregate as
// zero instead of faulting.
type Record struct {
	PostID         int64       `json:"post_id"`
	Likes          *int        `json:"likes"`
	Comments       *int        `json:"comments"`
	Shares         *int        `json:"shares"`
	EngagementRate *float64    `json:"engagement_rate"`
	CreatedAt      time.Time   `json:"created_at"`
	Post           *posts.Post `json:"posts,omitempty"`
}

// Totals holds summed engagement counts.
type Totals struct {
	Likes    int
	Comments int
	Shares   int
}

// Engagement is the combined interaction count.
func (t Totals) Engagement() int {
	return t.Likes + t.Comments + t.Shares
}

// Sum adds up likes, comments and shares across all records. Empty input
// yields all zeros.
func Sum(records []Record) Totals {
	var t Totals
	for _, r := range records {
		t.Likes += utils.Value(r.Likes)
		t.Comments += utils.Value(r.Comments)
		t.Shares += utils.Value(r.Shares)
	}
	return t
}

// AverageEngagementRate returns the arithmetic mean of the engagement rates,
// 0 for empty input.
func AverageEngagementRate(records []Record) float64 {
	if len(records) == 0 {
		return 0
	}
	var sum float64
	for _, r := range records {
		sum += utils.Value(r.EngagementRate)
	}
	return sum / float64(len(records))
}

// PlatformTotals is one platform's summed engagement.
type PlatformTotals struct {
	Platform string
	Totals
}

// ByPlatform groups engagement sums by the platform of each record's joined
// post. Buckets appear in first-seen order; records with no resolvable post
// fall into the "Unknown" bucket.
func ByPlatform(records []Record) []PlatformTotals {
	index := make(map[string]int)
	buckets := make([]PlatformTotals, 0)
	for _, r := range records {
		platform := UnknownPlatform
		if r.Post != nil && r.Post.Platform != "" {
			platform = string(r.Post.Platform)
		}
		i, ok := index[platform]
		if !ok {
			i = len(buckets)
			index[platform] = i
			buckets = append(buckets, PlatformTotals{Platform: platform})
		}
		buckets[i].Likes += utils.Value(r.Likes)
		buckets[i].Comments += utils.Value(r.Comments)
		buckets[i].Shares += utils.Value(r.Shares)
	}
	return buckets
}

// Point is one time-series sample.
type Point struct {
	DisplayDate    string
	EngagementRate float64
}

// TimeSeries maps records to display points, one per record, in the order the
// records were given. No re-sorting happens here; callers wanting a
// chronological series must supply records sorted by date.
func TimeSeries(records []Record) []Point {
	points := make([]Point, 0, len(records))
	for _, r := range records {
		points = append(points, Point{
			DisplayDate:    r.CreatedAt.Format(DisplayDateFormat),
			EngagementRate: utils.Value(r.EngagementRate),
		})
	}
	return points
}

// TopN returns the n most recent records by creation time, newest first. The
// sort is stable: records created at the same instant keep their original
// relative order.
func TopN(records []Record, n int) []Record {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if n < 0 {
		n = 0
	}
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}
