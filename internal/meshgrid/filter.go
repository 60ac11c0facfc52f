package meshgrid

import (
	"sort"

	"github.com/AislingA/SKIRT9/pkg/geom"
)

// indexedSite pairs a site with its pre-filter input index, which spec
// §4.1.1 requires to survive as the eventual cell identifier.
type indexedSite struct {
	idx int
	pos geom.Point3
}

// filterSites applies spec §4.1.1 step 1: when ignoreNearbyAndOutliers is
// set, drop sites outside box, then sweep-sort on x and discard any site
// within eps of an earlier-kept site (comparing full 3-D distance for any
// pair within eps on x). When the flag is clear, the caller guarantees
// distinctness and every input site survives untouched.
func filterSites(box geom.Box3, sites []geom.Point3, ignoreNearbyAndOutliers bool, eps geom.Real) ([]indexedSite, int, int) {
	all := make([]indexedSite, len(sites))
	for i, s := range sites {
		all[i] = indexedSite{idx: i, pos: s}
	}
	if !ignoreNearbyAndOutliers {
		return all, 0, 0
	}

	kept := make([]indexedSite, 0, len(all))
	outliers := 0
	for _, s := range all {
		if box.Contains(s.pos) {
			kept = append(kept, s)
		} else {
			outliers++
		}
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i].pos.X < kept[j].pos.X })

	survivors := make([]indexedSite, 0, len(kept))
	duplicates := 0
	for _, s := range kept {
		isDup := false
		for j := len(survivors) - 1; j >= 0; j-- {
			if s.pos.X-survivors[j].pos.X > eps {
				break
			}
			if s.pos.DistSq(survivors[j].pos) <= eps*eps {
				isDup = true
				break
			}
		}
		if isDup {
			duplicates++
			continue
		}
		survivors = append(survivors, s)
	}
	return survivors, outliers, duplicates
}
