package mastodon

import (
	"net/url"
	"strings"
)

// nextMaxID extracts the max_id cursor from a Link response header,
// e.g. `<https://host/api/v1/...?max_id=123>; rel="next"`. It returns
// "" when the header carries no rel="next" part; the absence of the
// link is the server's only end-of-data signal.
func nextMaxID(link string) string {
	for _, part := range strings.Split(link, ",") {
		seg := strings.Split(part, ";")
		if len(seg) < 2 {
			continue
		}

		target := strings.Trim(strings.TrimSpace(seg[0]), "<>")

		isNext := false
		for _, attr := range seg[1:] {
			if strings.TrimSpace(attr) == `rel="next"` {
				isNext = true
			}
		}
		if !isNext {
			continue
		}

		u, err := url.Parse(target)
		if err != nil {
			continue
		}
		return u.Query().Get("max_id")
	}
	return ""
}

// Drain repeatedly invokes a paginated fetch, advancing the cursor the
// server embeds in each response, and concatenates all pages. It stops
// as soon as a response comes back without a next cursor.
func Drain[T any](fetch func(maxID string) ([]T, string, error)) ([]T, error) {
	var all []T
	maxID := ""
	for {
		items, next, err := fetch(maxID)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
		if next == "" {
			return all, nil
		}
		maxID = next
	}
}
