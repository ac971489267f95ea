package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/trajectory/internal/trajectory"
)

// InspectResult summarizes a loaded table.
type InspectResult struct {
	Source    string                `json:"source"`
	Records   int                   `json:"records"`
	Threshold int                   `json:"threshold"`
	ObjectIDs []trajectory.ObjectID `json:"object_ids"`
	Dropped   []trajectory.ObjectID `json:"dropped_ids"`
	FirstTime *float64              `json:"first_time_index,omitempty"`
	LastTime  *float64              `json:"last_time_index,omitempty"`
	Digest    string                `json:"digest"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [source]",
		Short: "Summarize the normalized table",
		Long: `Load a source and report what survived normalization: record count, the
object ids kept and dropped, the time range and the table digest.

The source defaults to the configured one (./data.npy).`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runInspect(opts *RootOptions, args []string, cmd *cobra.Command) error {
	sess, err := newSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	store, err := sess.openStore(cmd.Context(), args)
	if err != nil {
		return err
	}

	result := InspectResult{
		Source:    store.Locator(),
		Records:   store.Len(),
		Threshold: store.Threshold(),
		ObjectIDs: nonNil(store.ObjectIDs()),
		Dropped:   nonNil(store.DroppedIDs()),
		Digest:    store.Digest(),
	}
	if first, last, ok := store.TimeRange(); ok {
		result.FirstTime, result.LastTime = &first, &last
	}

	return outputInspect(sess.out, result)
}

func outputInspect(out *OutputFormatter, r InspectResult) error {
	if out.Format == "json" {
		return out.Success(r)
	}

	out.Printf("Source:     %s\n", r.Source)
	out.Printf("Records:    %d\n", r.Records)
	out.Printf("Objects:    %d %v\n", len(r.ObjectIDs), r.ObjectIDs)
	out.Printf("Dropped:    %d %v (fewer than %d records)\n", len(r.Dropped), r.Dropped, r.Threshold)
	if r.FirstTime != nil {
		out.Printf("Time range: %v .. %v\n", *r.FirstTime, *r.LastTime)
	}
	out.Printf("Digest:     %s\n", r.Digest)
	return nil
}

// nonNil keeps empty id lists as [] rather than null in JSON.
func nonNil(ids []trajectory.ObjectID) []trajectory.ObjectID {
	if ids == nil {
		return []trajectory.ObjectID{}
	}
	return ids
}
