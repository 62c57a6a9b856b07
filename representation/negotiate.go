// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package representation

import (
	"sort"
	"strings"

	"github.com/munnerz/goautoneg"
)

// acceptRange is one media range of an Accept header.
type acceptRange struct {
	MediaType
	q           float64
	specificity int
}

func specificity(mt MediaType) int {
	switch {
	case mt.Type == "*":
		return 0

	case mt.Subtype == "*":
		return 1

	case strings.HasPrefix(mt.Subtype, "*+"):
		return 2

	default:
		return 3
	}
}

// parseAccept returns the ranges of an Accept header, highest q first and,
// within the same q, most specific first.
func parseAccept(accept string) []acceptRange {
	clauses := goautoneg.ParseAccept(accept)
	ranges := make([]acceptRange, 0, len(clauses))
	for _, c := range clauses {
		mt := MediaType{
			Type:    strings.ToLower(c.Type),
			Subtype: strings.ToLower(c.SubType),
		}

		ranges = append(ranges, acceptRange{
			MediaType:   mt,
			q:           c.Q,
			specificity: specificity(mt),
		})
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		if ranges[i].q != ranges[j].q {
			return ranges[i].q > ranges[j].q
		}

		return ranges[i].specificity > ranges[j].specificity
	})

	return ranges
}

// matchRange returns the index of the most specific range that includes
// offer, or -1 if none does.
func matchRange(ranges []acceptRange, offer MediaType) int {
	best := -1
	for i, r := range ranges {
		if r.Includes(offer) && (best < 0 || r.specificity > ranges[best].specificity) {
			best = i
		}
	}

	return best
}

// Negotiate picks the offer that best matches an Accept header.  An empty
// Accept header accepts the first offer.  Each offer takes the quality of the
// most specific range that includes it, so "application/*+xml" selects XMI
// and ECore, and a q=0 range excludes what it covers.  Offers tied on their
// range go in offer order.  If nothing is acceptable, this function returns
// false.
func Negotiate(accept string, offers ...MediaType) (MediaType, bool) {
	if len(offers) == 0 {
		return MediaType{}, false
	}

	if len(strings.TrimSpace(accept)) == 0 {
		return offers[0], true
	}

	var (
		ranges = parseAccept(accept)
		chosen = -1
		rank   int
	)

	for i, o := range offers {
		r := matchRange(ranges, o)
		if r < 0 || ranges[r].q <= 0 {
			continue
		}

		if chosen < 0 || r < rank {
			chosen, rank = i, r
		}
	}

	if chosen < 0 {
		return MediaType{}, false
	}

	return offers[chosen], true
}
