package differ

import (
	"sort"

	"schemadiff/internal/core"
)

// DiffTable compares the parsed forms of the same table from two snapshots
// and returns nil if they are structurally identical (the null-diff
// property, P4). Otherwise it returns a TableDelta listing every atomic
// Change in the fixed emission order spec.md §4.5 defines: columns, then
// indexes, then foreign keys, then options; each group further ordered
// drops-then-modifies-then-adds, alphabetical by name within a sub-group.
func DiffTable(name string, source, dest *core.Table) *core.TableDelta {
	var changes []core.Change
	changes = append(changes, diffColumns(source, dest)...)
	changes = append(changes, diffIndexes(source, dest)...)
	changes = append(changes, diffForeignKeys(source, dest)...)
	changes = append(changes, diffOptions(source.Options, dest.Options)...)

	if len(changes) == 0 {
		return nil
	}
	return &core.TableDelta{TableName: name, Changes: changes}
}

func diffColumns(source, dest *core.Table) []core.Change {
	srcByName := columnsByName(source)
	dstByName := columnsByName(dest)

	var drops, modifies, adds []core.Change
	for name, dstCol := range dstByName {
		if _, ok := srcByName[name]; !ok {
			// OldColumn carries the dest-side definition, and After its
			// dest-side predecessor, so the reverse planner can restore
			// both the definition and its original position without
			// re-reading the dest snapshot.
			drops = append(drops, core.Change{
				Op:         core.OpDropColumn,
				ColumnName: name,
				OldColumn:  dstCol,
				After:      dest.PredecessorColumn(name),
			})
		}
	}
	for name, srcCol := range srcByName {
		if dstCol, ok := dstByName[name]; !ok {
			adds = append(adds, core.Change{
				Op:     core.OpAddColumn,
				Column: srcCol,
				After:  source.PredecessorColumn(name),
			})
		} else if !srcCol.Equal(dstCol) {
			modifies = append(modifies, core.Change{
				Op:        core.OpModifyColumn,
				Column:    srcCol,
				OldColumn: dstCol,
			})
		}
	}

	sortChanges(drops, func(c core.Change) string { return c.ColumnName })
	sortChanges(modifies, func(c core.Change) string { return c.Column.Name })
	sortChanges(adds, func(c core.Change) string { return c.Column.Name })

	return concat(drops, modifies, adds)
}

func diffIndexes(source, dest *core.Table) []core.Change {
	srcByName := indexesByName(source)
	dstByName := indexesByName(dest)

	var drops, adds []core.Change
	for name, dstIdx := range dstByName {
		srcIdx, ok := srcByName[name]
		if !ok {
			drops = append(drops, core.Change{Op: core.OpDropIndex, IndexName: name, OldIndex: dstIdx})
			continue
		}
		if !srcIdx.Equal(dstIdx) {
			drops = append(drops, core.Change{Op: core.OpDropIndex, IndexName: name, OldIndex: dstIdx})
		}
	}
	for name, srcIdx := range srcByName {
		dstIdx, ok := dstByName[name]
		if !ok {
			adds = append(adds, core.Change{Op: core.OpAddIndex, Index: srcIdx})
			continue
		}
		if !srcIdx.Equal(dstIdx) {
			adds = append(adds, core.Change{Op: core.OpAddIndex, Index: srcIdx})
		}
	}

	sortChanges(drops, func(c core.Change) string { return c.IndexName })
	sortChanges(adds, func(c core.Change) string { return c.Index.Name })

	return concat(drops, adds)
}

func diffForeignKeys(source, dest *core.Table) []core.Change {
	srcByName := fksByName(source)
	dstByName := fksByName(dest)

	var drops, adds []core.Change
	for name, dstFK := range dstByName {
		srcFK, ok := srcByName[name]
		if !ok || !srcFK.Equal(dstFK) {
			drops = append(drops, core.Change{Op: core.OpDropForeignKey, ForeignKeyName: name, OldForeignKey: dstFK})
		}
	}
	for name, srcFK := range srcByName {
		dstFK, ok := dstByName[name]
		if !ok || !srcFK.Equal(dstFK) {
			adds = append(adds, core.Change{Op: core.OpAddForeignKey, ForeignKey: srcFK})
		}
	}

	sortChanges(drops, func(c core.Change) string { return c.ForeignKeyName })
	sortChanges(adds, func(c core.Change) string { return c.ForeignKey.Name })

	return concat(drops, adds)
}

func diffOptions(source, dest core.TableOptions) []core.Change {
	var changes []core.Change
	pairs := []struct {
		key      string
		src, dst string
	}{
		{"ENGINE", source.Engine, dest.Engine},
		{"DEFAULT CHARSET", source.DefaultCharset, dest.DefaultCharset},
		{"COLLATE", source.Collate, dest.Collate},
		{"COMMENT", source.Comment, dest.Comment},
	}
	for _, p := range pairs {
		if p.src != p.dst {
			changes = append(changes, core.Change{
				Op: core.OpSetOption, OptionKey: p.key, OldValue: p.dst, NewValue: p.src,
			})
		}
	}
	sortChanges(changes, func(c core.Change) string { return c.OptionKey })
	return changes
}

func columnsByName(t *core.Table) map[string]*core.Column {
	m := make(map[string]*core.Column, len(t.Columns))
	for _, c := range t.Columns {
		m[c.Name] = c
	}
	return m
}

func indexesByName(t *core.Table) map[string]*core.Index {
	m := make(map[string]*core.Index, len(t.Indexes))
	for _, idx := range t.Indexes {
		m[idx.Name] = idx
	}
	return m
}

func fksByName(t *core.Table) map[string]*core.ForeignKey {
	m := make(map[string]*core.ForeignKey, len(t.ForeignKeys))
	for _, fk := range t.ForeignKeys {
		m[fk.Name] = fk
	}
	return m
}

func sortChanges(changes []core.Change, key func(core.Change) string) {
	sort.Slice(changes, func(i, j int) bool { return key(changes[i]) < key(changes[j]) })
}

func concat(groups ...[]core.Change) []core.Change {
	var out []core.Change
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
