package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"Hearthlight/internal/dialogue"
)

var checkStrict bool

var checkCmd = &cobra.Command{
	Use:   "check <content-dir>",
	Short: "Validate a dialogue content directory",
	Long: `Load every content file under the directory with the same rules the
server uses, then list options whose next key points at a missing node.

Missing nodes only end the conversation at runtime, so they are reported as
warnings. Use --strict to fail on them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.OutOrStdout(), args[0], checkStrict)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "treat links to missing nodes as errors")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(out io.Writer, dir string, strict bool) error {
	store, err := dialogue.LoadDir(dir)
	if err != nil {
		return err
	}

	refs := store.DanglingRefs()
	for _, ref := range refs {
		fmt.Fprintf(out, "warning: %s option %d links to missing node %q\n", ref.Node, ref.Option, ref.Next)
	}
	fmt.Fprintf(out, "%d nodes, %d dangling links\n", len(store), len(refs))

	if strict && len(refs) > 0 {
		return fmt.Errorf("%d dangling links", len(refs))
	}
	return nil
}
