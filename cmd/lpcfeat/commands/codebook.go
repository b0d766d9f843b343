package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thesyncim/lpcfeat/codebook"
)

var exportSeed int64

var codebookCmd = &cobra.Command{
	Use:   "codebook",
	Short: "Codebook set management",
}

var codebookExportCmd = &cobra.Command{
	Use:   "export <codebooks.msgpack>",
	Short: "Write the active codebook set",
	Long: `Write the active codebook set (built-in, or the one named by --codebooks)
as msgpack. With --seed a fresh set is generated from that seed instead.
The file can be edited or replaced by trained tables and passed back with
--codebooks.`,
	Args: cobra.ExactArgs(1),
	RunE: runCodebookExport,
}

func init() {
	codebookExportCmd.Flags().Int64Var(&exportSeed, "seed", 0, "generate a set from this seed")
	codebookCmd.AddCommand(codebookExportCmd)
}

func runCodebookExport(cmd *cobra.Command, args []string) error {
	var set *codebook.Set
	var err error
	if cmd.Flags().Changed("seed") {
		set, err = codebook.Generate(exportSeed)
	} else {
		set, err = getConfig().codebooks()
	}
	if err != nil {
		return err
	}

	out, err := openOutput(args[0])
	if err != nil {
		return err
	}
	err = set.Save(out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	slog.Info("codebooks written", "output", args[0])
	return nil
}
