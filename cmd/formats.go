package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"vidtowav/domain/conversion"

	"github.com/spf13/cobra"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported output formats",
	Long: `List every output format with its file extension and whether the
--quality level affects it.

Example:
  vidtowav formats`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunFormatsWithDependencies(DefaultOutput)
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}

// RunFormatsWithDependencies prints the format catalog
func RunFormatsWithDependencies(out OutputWriter) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEXTENSION\tQUALITY\tDESCRIPTION")
	for _, f := range conversion.Formats() {
		quality := "0-4"
		if f.FixedProfile {
			quality = "fixed"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.ID, f.Extension, quality, f.Name)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Quality level 0 is the best, %d the smallest; %d is the default.\n",
		conversion.MaxQuality, conversion.DefaultQuality)
	fmt.Fprintf(out, "Example arguments for mp3 at the default level: %s\n",
		strings.Join(conversion.CodecArgsFor(conversion.FormatMP3, conversion.DefaultQuality), " "))
	return nil
}
