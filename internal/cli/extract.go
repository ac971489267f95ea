package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/trajectory/internal/trajectory"
)

// ExtractResult holds one object's records in time order.
type ExtractResult struct {
	ObjectID trajectory.ObjectID `json:"object_id"`
	Records  trajectory.Table    `json:"records"`
}

// NewExtractCommand creates the extract command.
func NewExtractCommand(rootOpts *RootOptions) *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "extract [source] --id <object-id>",
		Short: "Print the records of one object",
		Long: `Extract the records of one object id from the normalized table, in
time_index order. An id with no surviving records yields an empty list.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(rootOpts, args, id, cmd)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "object id to extract (required)")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runExtract(opts *RootOptions, args []string, id string, cmd *cobra.Command) error {
	sess, err := newSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	store, err := sess.openStore(cmd.Context(), args)
	if err != nil {
		return err
	}

	sub, err := store.Extract(id)
	if err != nil {
		return sess.fail(err)
	}

	result := ExtractResult{ObjectID: sub.ObjectID(), Records: sub.Records()}
	if result.Records == nil {
		result.Records = trajectory.Table{}
	}
	return outputExtract(sess.out, result)
}

func outputExtract(out *OutputFormatter, r ExtractResult) error {
	if out.Format == "json" {
		return out.Success(r)
	}

	if len(r.Records) == 0 {
		out.Printf("object_id %d: no records\n", r.ObjectID)
		return nil
	}
	out.Printf("object_id %d: %d records\n", r.ObjectID, len(r.Records))
	out.Printf("%12s %12s %12s\n", "time_index", "latitude", "longitude")
	for _, rec := range r.Records {
		out.Printf("%12v %12.6f %12.6f\n", rec.TimeIndex, rec.Latitude, rec.Longitude)
	}
	return nil
}
