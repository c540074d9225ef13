// Package main is the command-line front-end: argument parsing, config
// loading, and writing the two output files. It is the external collaborator
// spec.md §6 describes as explicitly out of core scope — everything it calls
// into (introspect, differ, planner, serialize) is a pure library with no
// knowledge of flags or files.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"schemadiff/internal/core"
	"schemadiff/internal/differ"
	"schemadiff/internal/introspect"
	introspectmysql "schemadiff/internal/introspect/mysql"
	"schemadiff/internal/planner"
	"schemadiff/internal/serialize"
)

type compareFlags struct {
	configPath string

	sourceHost, sourceUser, sourcePassword, sourceSchema string
	sourcePort                                           int

	destHost, destUser, destPassword, destSchema string
	destPort                                     int

	outDir     string
	dryRun     bool
	diffReport bool
}

func main() {
	log := logrus.StandardLogger()

	rootCmd := &cobra.Command{
		Use:   "schemadiff",
		Short: "Compares two MariaDB/MySQL schemas and emits forward + rollback migration SQL",
	}
	rootCmd.AddCommand(compareCmd(log))

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("command failed")
		os.Exit(1)
	}
}

func compareCmd(log *logrus.Logger) *cobra.Command {
	flags := &compareFlags{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a SOURCE schema against a DEST schema and write migration.sql / rollback.sql",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runCompare(log, flags)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "Path to a TOML config file providing [source]/[dest] connection parameters")

	cmd.Flags().StringVar(&flags.sourceHost, "source-host", "", "Source DB host")
	cmd.Flags().IntVar(&flags.sourcePort, "source-port", 0, "Source DB port (default 3306)")
	cmd.Flags().StringVar(&flags.sourceUser, "source-user", "", "Source DB user")
	cmd.Flags().StringVar(&flags.sourcePassword, "source-password", "", "Source DB password")
	cmd.Flags().StringVar(&flags.sourceSchema, "source-schema", "", "Source schema name")

	cmd.Flags().StringVar(&flags.destHost, "dest-host", "", "Dest DB host")
	cmd.Flags().IntVar(&flags.destPort, "dest-port", 0, "Dest DB port (default 3306)")
	cmd.Flags().StringVar(&flags.destUser, "dest-user", "", "Dest DB user")
	cmd.Flags().StringVar(&flags.destPassword, "dest-password", "", "Dest DB password")
	cmd.Flags().StringVar(&flags.destSchema, "dest-schema", "", "Dest schema name")

	cmd.Flags().StringVarP(&flags.outDir, "output", "o", ".", "Directory to write migration.sql and rollback.sql into")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the plans to stdout instead of writing files")
	cmd.Flags().BoolVar(&flags.diffReport, "diff-report", false, "Also write a human-readable summary of the diff to diff.txt (printed instead under --dry-run)")

	return cmd
}

func runCompare(log *logrus.Logger, flags *compareFlags) error {
	fileCfg, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}

	sourceConn := mergeConn(fileCfg.Source, flags.sourceHost, flags.sourceUser, flags.sourcePassword, flags.sourceSchema, flags.sourcePort)
	destConn := mergeConn(fileCfg.Dest, flags.destHost, flags.destUser, flags.destPassword, flags.destSchema, flags.destPort)

	if sourceConn.Schema == "" || destConn.Schema == "" {
		return fmt.Errorf("both --source-schema and --dest-schema (or config file equivalents) are required")
	}

	ctx := context.Background()

	sourceSnap, err := snapshotOf(ctx, log, sourceConn)
	if err != nil {
		return err
	}
	destSnap, err := snapshotOf(ctx, log, destConn)
	if err != nil {
		return err
	}

	diff, err := buildDiff(log, sourceSnap, destSnap)
	if err != nil {
		return err
	}

	forward := planner.BuildForward(diff, sourceSnap, destSnap)
	reverse := planner.BuildReverse(diff, sourceSnap, destSnap)
	now := time.Now()

	forwardSQL := serialize.Render(forward, serialize.Forward, now)
	reverseSQL := serialize.Render(reverse, serialize.Reverse, now)

	var report string
	if flags.diffReport {
		report = serialize.Report(diff)
	}

	if flags.dryRun {
		fmt.Print(report)
		fmt.Println(forwardSQL)
		fmt.Println(reverseSQL)
		return nil
	}

	if err := writePlans(flags.outDir, forwardSQL, reverseSQL); err != nil {
		return err
	}
	if flags.diffReport {
		if err := os.WriteFile(flags.outDir+"/diff.txt", []byte(report), 0o644); err != nil {
			return fmt.Errorf("write diff.txt: %w", err)
		}
	}
	return nil
}

func snapshotOf(ctx context.Context, log *logrus.Logger, conn connConfig) (*core.Snapshot, error) {
	reader, err := introspectmysql.Open(ctx, conn.dsn())
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	insp := introspect.New(reader)
	insp.Log = log
	return insp.Snapshot(ctx, conn.Schema)
}

// buildDiff runs the kind-level differ for every object kind and the
// table-structure differ for every table present on both sides, parsing
// CREATE TABLE DDL only where it is actually needed.
//
// A CREATE TABLE that fails to parse on either side is recoverable, not
// fatal (spec.md §7): the table is treated as opaque and compared as
// whitespace-normalized text instead. If that text differs, a diagnostic
// note is recorded rather than a fabricated structural delta; if it
// doesn't, the table is silently treated as unchanged.
func buildDiff(log *logrus.Logger, source, dest *core.Snapshot) (*core.Diff, error) {
	diff := core.NewDiff()
	for _, kind := range core.AllKinds() {
		diff.PerKind[kind] = differ.DiffKinds(source, dest, kind)
	}

	parse := newTableParser()
	for _, name := range diff.PerKind[core.KindTable].InBoth {
		srcRec, _ := source.Find(core.KindTable, name)
		dstRec, _ := dest.Find(core.KindTable, name)
		if srcRec.DDLError != nil || dstRec.DDLError != nil {
			continue
		}

		srcTable, srcErr := parse(srcRec.DDL)
		dstTable, dstErr := parse(dstRec.DDL)
		if srcErr != nil || dstErr != nil {
			if srcErr != nil {
				log.WithError(srcErr).Warnf("table %q: source CREATE TABLE did not parse, falling back to text comparison", name)
			}
			if dstErr != nil {
				log.WithError(dstErr).Warnf("table %q: dest CREATE TABLE did not parse, falling back to text comparison", name)
			}
			if differ.NormalizeDDL(srcRec.DDL) != differ.NormalizeDDL(dstRec.DDL) {
				diff.TableParseNotes[name] = fmt.Sprintf(
					"table %q could not be fully parsed; DDL text differs between source and dest, review manually", name)
			}
			continue
		}

		if delta := differ.DiffTable(name, srcTable, dstTable); delta != nil {
			diff.TableDeltas[name] = delta
		}
	}
	return diff, nil
}

func writePlans(outDir, forwardSQL, reverseSQL string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir %q: %w", outDir, err)
	}
	if err := os.WriteFile(outDir+"/migration.sql", []byte(forwardSQL), 0o644); err != nil {
		return fmt.Errorf("write migration.sql: %w", err)
	}
	if err := os.WriteFile(outDir+"/rollback.sql", []byte(reverseSQL), 0o644); err != nil {
		return fmt.Errorf("write rollback.sql: %w", err)
	}
	return nil
}
