// Package differ implements the pure, in-memory comparison stage: the
// kind-level differ (spec component D) and the table-structure differ
// (component E). Neither touches a database connection or a CLI framework;
// both operate on two already-captured core.Snapshot values.
package differ

import (
	"sort"
	"strings"

	"schemadiff/internal/core"
)

// DiffKinds partitions the names of one object kind between source and dest,
// and for non-table kinds refines in_both membership by DDL comparison:
// an object present in both is only reported as "in both" (unchanged) if
// its whitespace-normalized DDL text is identical on both sides. Changed
// non-table objects are surfaced by being absent from the returned KindDiff's
// InBoth list and present in both OnlyInSource and OnlyInDest instead, so
// the planner's existing drop/create machinery handles them uniformly.
func DiffKinds(source, dest *core.Snapshot, kind core.ObjectKind) *core.KindDiff {
	srcNames := nameSet(source, kind)
	dstNames := dest.Names(kind)

	kd := &core.KindDiff{}
	dstSet := make(map[string]bool, len(dstNames))
	for _, n := range dstNames {
		dstSet[n] = true
	}

	var inBoth []string
	for name := range srcNames {
		if dstSet[name] {
			inBoth = append(inBoth, name)
		} else {
			kd.OnlyInSource = append(kd.OnlyInSource, name)
		}
	}
	for _, name := range dstNames {
		if _, ok := srcNames[name]; !ok {
			kd.OnlyInDest = append(kd.OnlyInDest, name)
		}
	}

	if kind == core.KindTable {
		kd.InBoth = inBoth
	} else {
		for _, name := range inBoth {
			srcRec, _ := source.Find(kind, name)
			dstRec, _ := dest.Find(kind, name)
			if normalizeDDL(srcRec.DDL) == normalizeDDL(dstRec.DDL) {
				kd.InBoth = append(kd.InBoth, name)
			} else {
				kd.OnlyInSource = append(kd.OnlyInSource, name)
				kd.OnlyInDest = append(kd.OnlyInDest, name)
			}
		}
	}

	sort.Strings(kd.OnlyInSource)
	sort.Strings(kd.OnlyInDest)
	sort.Strings(kd.InBoth)
	return kd
}

func nameSet(snap *core.Snapshot, kind core.ObjectKind) map[string]struct{} {
	names := snap.Names(kind)
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// normalizeDDL collapses whitespace runs to single spaces, matching the
// normalization spec.md §4.4 requires before comparing two DDL strings.
func normalizeDDL(ddl string) string {
	return NormalizeDDL(ddl)
}

// NormalizeDDL collapses whitespace runs to single spaces. Exported so
// callers outside this package (the parse-failure fallback comparison,
// spec.md §7) can apply the identical normalization the kind-level differ
// uses, rather than reimplementing it.
func NormalizeDDL(ddl string) string {
	return strings.Join(strings.Fields(ddl), " ")
}
