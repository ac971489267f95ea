package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/trajectory/internal/reduce"
	"github.com/roach88/trajectory/internal/trajectory"
)

// ReduceResult holds one named reduction of one object.
type ReduceResult struct {
	ObjectID trajectory.ObjectID `json:"object_id"`
	Metric   string              `json:"metric"`
	Value    any                 `json:"value"`
}

// NewReduceCommand creates the reduce command.
func NewReduceCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		id     string
		metric string
	)

	cmd := &cobra.Command{
		Use:   "reduce [source] --id <object-id> [--metric <name>]",
		Short: "Apply a reduction to one object's trajectory",
		Long: `Extract one object id and apply a named reduction to its records.

Metrics: ` + strings.Join(reduce.Names(), ", ") + `.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReduce(rootOpts, args, id, metric, cmd)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "object id to reduce (required)")
	cmd.Flags().StringVarP(&metric, "metric", "m", "summary", "reduction to apply")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runReduce(opts *RootOptions, args []string, id, metric string, cmd *cobra.Command) error {
	sess, err := newSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	fn, err := reduce.Lookup(metric)
	if err != nil {
		return sess.failWith(ExitCommandError, ErrCodeUnknownMetric, err)
	}

	store, err := sess.openStore(cmd.Context(), args)
	if err != nil {
		return err
	}

	sub, err := store.Extract(id)
	if err != nil {
		return sess.fail(err)
	}

	value, err := trajectory.Reduce[any](store, sub, fn)
	if err != nil {
		return sess.fail(err)
	}

	return outputReduce(sess.out, ReduceResult{ObjectID: sub.ObjectID(), Metric: metric, Value: value})
}

func outputReduce(out *OutputFormatter, r ReduceResult) error {
	if out.Format == "json" {
		return out.Success(r)
	}

	switch v := r.Value.(type) {
	case reduce.Summary:
		writeSummary(out, v)
	case reduce.Bounds:
		out.Printf("object_id %d bounds: latitude %.6f .. %.6f, longitude %.6f .. %.6f\n",
			r.ObjectID, v.MinLatitude, v.MaxLatitude, v.MinLongitude, v.MaxLongitude)
	case reduce.Span:
		out.Printf("object_id %d span: %v .. %v (%v)\n", r.ObjectID, v.Start, v.End, v.Duration)
	case float64:
		out.Printf("object_id %d %s: %.3f\n", r.ObjectID, r.Metric, v)
	default:
		out.Printf("object_id %d %s: %v\n", r.ObjectID, r.Metric, v)
	}
	return nil
}

// writeSummary prints every field of a summary, one per line.
func writeSummary(out *OutputFormatter, s reduce.Summary) {
	out.Printf("object_id:   %d\n", s.ObjectID)
	out.Printf("records:     %d\n", s.Count)
	out.Printf("distance_km: %.3f\n", s.DistanceKM)
	if s.Span != nil {
		out.Printf("time_index:  %v .. %v\n", s.Span.Start, s.Span.End)
	}
	if s.Bounds != nil {
		out.Printf("latitude:    %.6f .. %.6f\n", s.Bounds.MinLatitude, s.Bounds.MaxLatitude)
		out.Printf("longitude:   %.6f .. %.6f\n", s.Bounds.MinLongitude, s.Bounds.MaxLongitude)
	}
}
