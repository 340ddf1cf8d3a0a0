package espn

import (
	"strings"
	"time"
)

// pageEnvelope is the shape of every listing endpoint: a page of resource
// links plus paging counters. Resources themselves are one fetch away via
// each item's $ref.
type pageEnvelope struct {
	Count     int           `json:"count"`
	PageIndex int           `json:"pageIndex"`
	PageSize  int           `json:"pageSize"`
	PageCount int           `json:"pageCount"`
	Items     []refEnvelope `json:"items"`
}

type refEnvelope struct {
	Ref string `json:"$ref"`
}

type leagueResource struct {
	ID           string      `json:"id"`
	UID          string      `json:"uid"`
	Name         string      `json:"name"`
	DisplayName  string      `json:"displayName"`
	Abbreviation string      `json:"abbreviation"`
	Slug         string      `json:"slug"`
	Seasons      refEnvelope `json:"seasons"`
}

type seasonResource struct {
	Year        int         `json:"year"`
	DisplayName string      `json:"displayName"`
	StartDate   string      `json:"startDate"`
	EndDate     string      `json:"endDate"`
	Teams       refEnvelope `json:"teams"`
}

type teamResource struct {
	ID           string `json:"id"`
	UID          string `json:"uid"`
	Slug         string `json:"slug"`
	Location     string `json:"location"`
	Name         string `json:"name"`
	Nickname     string `json:"nickname"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"displayName"`
	Logos        []struct {
		Href string `json:"href"`
	} `json:"logos"`
}

func (t teamResource) logoAt(index int) string {
	if index < 0 || index >= len(t.Logos) {
		return ""
	}
	return strings.TrimSpace(t.Logos[index].Href)
}

// parseResourceDate accepts the timestamp layouts the provider emits on
// season resources.
func parseResourceDate(raw string) time.Time {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04Z07:00",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

// normalizeRefScheme upgrades the plain-http resource links the provider
// hands out so every follow-up request stays on TLS.
func normalizeRefScheme(ref string) string {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "http://") {
		return "https://" + strings.TrimPrefix(ref, "http://")
	}
	return ref
}
