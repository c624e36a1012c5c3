package cmd

import (
	"encoding/hex"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"sigs.k8s.io/yaml"

	"github.com/calebcase/ocf/container"
)

// report is the summary printed by inspect.
type report struct {
	Codec    string            `json:"codec"`
	Sync     string            `json:"sync"`
	Fields   []field           `json:"fields"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Blocks   int64             `json:"blocks"`
	Records  int64             `json:"records"`
	Bytes    int64             `json:"bytes"`
}

type field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func newInspectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [input]",
		Short: "Summarize a container file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := "-"
			if len(args) > 0 {
				arg = args[0]
			}

			rc, err := open(cmd.Context(), cmd.InOrStdin(), arg)
			if err != nil {
				return err
			}
			defer rc.Close()

			verify, _ := cmd.Flags().GetBool("verify")

			t := container.New(
				source(cmd.Context(), rc, a.config.ChunkSize),
				nil,
				container.WithChecksumVerification(verify || a.config.VerifyChecksums),
				container.WithLogger(a.log),
			)

			_, err = t.WriteTo(io.Discard)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(newReport(t))
			if err != nil {
				return Error.Wrap(err)
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}

	cmd.Flags().Bool("verify", false, "verify input block checksums")

	return cmd
}

func newReport(t *container.Transcoder) *report {
	sync := t.Sync()
	stats := t.Stats()

	r := &report{
		Codec:    t.Codec().Name(),
		Sync:     hex.EncodeToString(sync[:]),
		Metadata: map[string]string{},
		Blocks:   stats.Blocks,
		Records:  stats.Records,
		Bytes:    stats.BytesIn,
	}

	for _, f := range t.Schema().Fields {
		r.Fields = append(r.Fields, field{Name: f.Name, Type: string(f.Type)})
	}

	keys := maps.Keys(t.Metadata())
	slices.Sort(keys)

	for _, k := range keys {
		if k == container.KeySchema || k == container.KeyCodec {
			continue
		}

		v := t.Metadata()[k]
		if isPrintable(v) {
			r.Metadata[k] = string(v)
		} else {
			r.Metadata[k] = hex.EncodeToString(v)
		}
	}

	return r
}

func isPrintable(p []byte) bool {
	for _, c := range p {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}

	return true
}
