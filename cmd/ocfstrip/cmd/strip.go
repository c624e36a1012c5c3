package cmd

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calebcase/ocf/container"
	"github.com/calebcase/ocf/internal/config"
	"github.com/calebcase/ocf/schema"
	"github.com/calebcase/ocf/transform"
)

func newStripCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strip [input]",
		Short: "Remove fields from a container file",
		Long: `Remove fields from every record of a container file and from its schema.

The input is a file, "-" for stdin, or an http(s) URL. With --sample a
generated file is used instead.`,
		Example: `  ocfstrip strip users.avro -f email -f ssn -o users-clean.avro
  curl -s https://example.com/users.avro | ocfstrip strip --keep id > ids.avro
  ocfstrip strip --sample 10 -f email | ocfstrip inspect`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			c := a.config

			err = stripFlags(cmd, c)
			if err != nil {
				return err
			}

			var in io.Reader
			samples, _ := cmd.Flags().GetInt("sample")
			switch {
			case samples > 0:
				if len(args) > 0 {
					return Error.New("--sample takes no input argument")
				}

				in, err = sample(samples)
				if err != nil {
					return err
				}
			default:
				arg := "-"
				if len(args) > 0 {
					arg = args[0]
				}

				rc, err := open(cmd.Context(), cmd.InOrStdin(), arg)
				if err != nil {
					return err
				}
				defer rc.Close()

				in = rc
			}

			output, _ := cmd.Flags().GetString("output")
			out, err := create(cmd.OutOrStdout(), output)
			if err != nil {
				return err
			}

			t := container.New(
				source(cmd.Context(), in, c.ChunkSize),
				nil,
				container.WithTransform(newTransform(c)),
				container.WithChecksumVerification(c.VerifyChecksums),
				container.WithLogger(a.log),
			)

			n, err := t.WriteTo(out)
			if err != nil {
				_ = out.Close()

				return err
			}

			err = out.Close()
			if err != nil {
				return Error.Wrap(err)
			}

			stats := t.Stats()
			a.log.Info("stripped",
				zap.Strings("fields", t.Schema().Names()),
				zap.Strings("output_fields", t.OutputSchema().Names()),
				zap.Int64("blocks", stats.Blocks),
				zap.Int64("records", stats.Records),
				zap.Int64("bytes_in", stats.BytesIn),
				zap.Int64("bytes_out", n),
			)

			return nil
		},
	}

	cmd.Flags().StringSliceP("field", "f", nil, "field to remove (repeatable)")
	cmd.Flags().StringSlice("keep", nil, "field to keep, removing all others (repeatable)")
	cmd.Flags().StringP("output", "o", "-", "output file, or - for stdout")
	cmd.Flags().Int("chunk-size", container.DefaultChunkSize, "input read size in bytes")
	cmd.Flags().Bool("verify", false, "verify input block checksums")
	cmd.Flags().Int("sample", 0, "transcode a generated file of this many records instead of reading input")

	return cmd
}

// stripFlags applies the command line flags on top of c.
func stripFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("field") {
		c.Strip, _ = flags.GetStringSlice("field")
	}
	if flags.Changed("keep") {
		c.Keep, _ = flags.GetStringSlice("keep")
	}
	if flags.Changed("chunk-size") {
		c.ChunkSize, _ = flags.GetInt("chunk-size")
	}
	if flags.Changed("verify") {
		c.VerifyChecksums, _ = flags.GetBool("verify")
	}

	return c.Validate()
}

func newTransform(c *config.Config) transform.Transform {
	if len(c.Keep) > 0 {
		return transform.Keep(c.Keep...)
	}

	return transform.Strip(c.Strip...)
}

// sample returns a snappy compressed container file of n generated user
// records, split into blocks of up to 100 records.
func sample(n int) (io.Reader, error) {
	s := schema.New("user",
		schema.NewField("id", schema.Long),
		schema.NewField("name", schema.String),
		schema.NewField("email", schema.String),
		schema.NewField("age", schema.Int),
	)

	var buf bytes.Buffer

	w, err := container.NewWriter(&buf, s, container.WriterConfig{
		Codec: container.CodecSnappy,
		Metadata: map[string][]byte{
			"ocfstrip.sample": []byte("true"),
		},
	})
	if err != nil {
		return nil, err
	}

	const blockSize = 100

	for start := 0; start < n; start += blockSize {
		records := make([][]schema.Value, 0, blockSize)
		for i := start; i < n && i < start+blockSize; i++ {
			records = append(records, []schema.Value{
				schema.LongValue(int64(i)),
				schema.StringValue(fmt.Sprintf("user %d", i)),
				schema.StringValue(fmt.Sprintf("user%d@example.com", i)),
				{Type: schema.Int, Long: int64(18 + i%60)},
			})
		}

		err = w.WriteRecords(records...)
		if err != nil {
			return nil, err
		}
	}

	err = w.Close()
	if err != nil {
		return nil, err
	}

	return &buf, nil
}
