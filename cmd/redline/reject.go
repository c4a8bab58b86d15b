package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dshills/redline/internal/annotation"
	"github.com/dshills/redline/internal/host"
	"github.com/dshills/redline/internal/reject"
)

func newRejectCmd(a *app) *cobra.Command {
	var (
		docPath  string
		snapPath string
		ids      []string
		at       []int64
		write    bool
	)

	cmd := &cobra.Command{
		Use:   "reject",
		Short: "Revert tracked changes in a document",
		Long: `reject reverts the tracked changes named by --id or annotated at a byte
offset given with --at. Insertions are removed and deletions restored. Either
every change is reverted or none is: if the document no longer matches a
change, nothing is written.`,
		Example: `  redline reject --doc notes.txt --snapshot notes.ranges.json --id c1 --id c2
  redline reject --doc notes.txt --snapshot notes.ranges.json --id c1 --write
  redline reject --doc notes.txt --snapshot notes.ranges.json --at 120`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.loadInput(docPath, snapPath)
			if err != nil {
				return err
			}

			ids = append(ids, changesAt(a.build(in), at)...)

			surface := host.New(in.doc.Text(), host.WithLogger(a.logger))
			batch, err := surface.Reject(reject.New(reject.WithLogger(a.logger)), in.snap.Ranges.IndexLogged(a.logger), ids)
			if err != nil {
				return err
			}
			a.logger.Info("changes rejected",
				slog.String("batch", batch.ID.String()),
				slog.Int("edits", batch.Len()))

			if !write {
				_, err := io.WriteString(cmd.OutOrStdout(), surface.Text())
				return err
			}
			if batch.IsEmpty() {
				return nil
			}
			return writeFileAtomic(in.docPath, []byte(surface.Text()))
		},
	}

	cmd.Flags().StringVar(&docPath, "doc", "", "Document file")
	cmd.Flags().StringVar(&snapPath, "snapshot", "", "Tracked-change snapshot (JSON)")
	cmd.Flags().StringArrayVar(&ids, "id", nil, "Change id to reject (repeatable)")
	cmd.Flags().Int64SliceVar(&at, "at", nil, "Reject the changes at this byte offset (repeatable)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to --doc instead of stdout")
	return cmd
}

// changesAt returns the ids of the insertions and deletions annotated at each
// offset.
func changesAt(set annotation.Set, offsets []int64) []string {
	var ids []string
	for _, off := range offsets {
		for _, ann := range set.AtOffset(off) {
			if ann.Kind != annotation.KindComment {
				ids = append(ids, ann.ID)
			}
		}
	}
	return ids
}

// writeFileAtomic replaces path with data through a temp file in the same
// directory, keeping the original permissions.
func writeFileAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpPath, info.Mode().Perm())
	}
	if err == nil {
		err = os.Rename(tmpPath, path)
	}
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
